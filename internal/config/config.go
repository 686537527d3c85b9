package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ledgerprobe/ledgerprobe/internal/engine"
	"github.com/ledgerprobe/ledgerprobe/internal/signatures"
)

// FileConfig is the on-disk configuration shape. Nil fields are unset.
type FileConfig struct {
	Threads          *int     `yaml:"threads,omitempty" toml:"threads,omitempty"`
	FieldScanCount   *int     `yaml:"field_scan_count,omitempty" toml:"field_scan_count,omitempty"`
	FieldStart       *int     `yaml:"field_start,omitempty" toml:"field_start,omitempty"`
	ContextRadius    *int     `yaml:"context_radius,omitempty" toml:"context_radius,omitempty"`
	MaxFields        *int     `yaml:"max_fields,omitempty" toml:"max_fields,omitempty"`
	HighEntropy      *float64 `yaml:"high_entropy_threshold,omitempty" toml:"high_entropy_threshold,omitempty"`
	NullRatio        *float64 `yaml:"null_ratio_threshold,omitempty" toml:"null_ratio_threshold,omitempty"`
	BlockSizes       []int    `yaml:"block_sizes,omitempty" toml:"block_sizes,omitempty"`
	Strides          []int    `yaml:"strides,omitempty" toml:"strides,omitempty"`
	StrideMatchRatio *float64 `yaml:"stride_match_ratio,omitempty" toml:"stride_match_ratio,omitempty"`
	MaxInflateBytes  *int64   `yaml:"max_inflate_bytes,omitempty" toml:"max_inflate_bytes,omitempty"`

	// Batch selection
	Include         *string `yaml:"include,omitempty" toml:"include,omitempty"`
	Exclude         *string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	MaxBytes        *int64  `yaml:"max_bytes,omitempty" toml:"max_bytes,omitempty"`
	DefaultExcludes *bool   `yaml:"default_excludes,omitempty" toml:"default_excludes,omitempty"`

	// Catalogue extensions
	Signatures      []SignatureEntry  `yaml:"signatures,omitempty" toml:"signatures,omitempty"`
	Patterns        map[string]string `yaml:"patterns,omitempty" toml:"patterns,omitempty"`
	DisablePatterns []string          `yaml:"disable_patterns,omitempty" toml:"disable_patterns,omitempty"`

	LogLevel  *string `yaml:"log_level,omitempty" toml:"log_level,omitempty"`
	LogFormat *string `yaml:"log_format,omitempty" toml:"log_format,omitempty"`
}

// SignatureEntry is an extra marker; Hex is the hex-encoded marker bytes.
type SignatureEntry struct {
	Label string `yaml:"label" toml:"label"`
	Hex   string `yaml:"hex" toml:"hex"`
}

var localNames = []string{
	".ledgerprobe.yml", ".ledgerprobe.yaml", ".ledgerprobe.toml",
	"ledgerprobe.yml", "ledgerprobe.yaml", "ledgerprobe.toml",
}

// LoadFile reads a config file; the format follows the extension, YAML
// unless it is .toml.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(b), &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the given directory, dotfiles
// first.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range localNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	for _, name := range []string{"config.yml", "config.yaml", "config.toml"} {
		p := filepath.Join(base, "ledgerprobe", name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no global config")
}

// Apply overlays the set fields of fc onto cfg. Extra signatures and
// patterns are appended to what cfg already carries.
func (fc FileConfig) Apply(cfg engine.Config) (engine.Config, error) {
	if err := fc.checkRanges(); err != nil {
		return cfg, err
	}
	if fc.Threads != nil {
		cfg.Threads = *fc.Threads
	}
	if fc.FieldScanCount != nil {
		cfg.Fields.Count = *fc.FieldScanCount
	}
	if fc.FieldStart != nil {
		cfg.Fields.Start = *fc.FieldStart
	}
	if fc.ContextRadius != nil {
		cfg.PatternOptions.ContextRadius = *fc.ContextRadius
	}
	if fc.MaxFields != nil {
		cfg.MaxFields = *fc.MaxFields
	}
	if fc.HighEntropy != nil {
		cfg.Entropy.HighThreshold = *fc.HighEntropy
		cfg.Confidence.EntropyThreshold = *fc.HighEntropy
	}
	if fc.NullRatio != nil {
		cfg.Confidence.NullRatio = *fc.NullRatio
	}
	if len(fc.BlockSizes) > 0 {
		cfg.Structure.BlockSizes = append([]int(nil), fc.BlockSizes...)
	}
	if len(fc.Strides) > 0 {
		cfg.Structure.Strides = append([]int(nil), fc.Strides...)
	}
	if fc.StrideMatchRatio != nil {
		cfg.Structure.StrideMatchRatio = *fc.StrideMatchRatio
	}
	if fc.MaxInflateBytes != nil {
		cfg.Entropy.MaxInflateBytes = *fc.MaxInflateBytes
	}
	if fc.Include != nil {
		cfg.IncludeGlobs = *fc.Include
	}
	if fc.Exclude != nil {
		cfg.ExcludeGlobs = *fc.Exclude
	}
	if fc.MaxBytes != nil {
		cfg.MaxBytes = *fc.MaxBytes
	}
	if fc.DefaultExcludes != nil {
		cfg.DefaultExcludes = *fc.DefaultExcludes
	}

	if len(fc.Signatures) > 0 {
		sigs := append(signatures.Catalogue(nil), cfg.Signatures...)
		for _, s := range fc.Signatures {
			sig, err := signatures.ParseSignature(s.Label, s.Hex)
			if err != nil {
				return cfg, err
			}
			sigs = append(sigs, sig)
		}
		cfg.Signatures = sigs
	}
	if len(fc.Patterns) > 0 {
		extra := make(map[string]string, len(cfg.PatternOptions.Extra)+len(fc.Patterns))
		for k, v := range cfg.PatternOptions.Extra {
			extra[k] = v
		}
		for k, v := range fc.Patterns {
			extra[k] = v
		}
		cfg.PatternOptions.Extra = extra
	}
	if len(fc.DisablePatterns) > 0 {
		cfg.PatternOptions.Disable = append(append([]string(nil), cfg.PatternOptions.Disable...), fc.DisablePatterns...)
	}
	return cfg, nil
}

// checkRanges rejects thresholds the analyzers would treat as unset.
func (fc FileConfig) checkRanges() error {
	for _, r := range []struct {
		key      string
		v        *float64
		min, max float64
	}{
		{"high_entropy_threshold", fc.HighEntropy, 0, 8},
		{"null_ratio_threshold", fc.NullRatio, 0, 1},
		{"stride_match_ratio", fc.StrideMatchRatio, 0, 1},
	} {
		if r.v != nil && (*r.v <= r.min || *r.v > r.max) {
			return fmt.Errorf("%s: %v is outside (%v, %v]", r.key, *r.v, r.min, r.max)
		}
	}
	return nil
}

// Marshal renders fc as YAML or, when format is "toml", TOML.
func Marshal(fc FileConfig, format string) ([]byte, error) {
	if strings.EqualFold(format, "toml") {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(fc); err != nil {
			return nil, err
		}
		return []byte(sb.String()), nil
	}
	return yaml.Marshal(&fc)
}
