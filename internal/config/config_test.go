package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerprobe/ledgerprobe/internal/engine"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "ledgerprobe.yaml", `threads: 4
max_bytes: 123
block_sizes: [32, 64]
signatures:
  - label: CUSTOM
    hex: "cafe"
patterns:
  invoice: 'INV-\d{6}'
disable_patterns: [md5]
log_level: debug
`)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 4 {
		t.Fatalf("expected threads=4, got %#v", cfg.Threads)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 123 {
		t.Fatalf("expected max_bytes=123, got %#v", cfg.MaxBytes)
	}
	assert.Equal(t, []int{32, 64}, cfg.BlockSizes)
	assert.Equal(t, []SignatureEntry{{Label: "CUSTOM", Hex: "cafe"}}, cfg.Signatures)
	assert.Equal(t, `INV-\d{6}`, cfg.Patterns["invoice"])
	assert.Equal(t, []string{"md5"}, cfg.DisablePatterns)
	require.NotNil(t, cfg.LogLevel)
	assert.Equal(t, "debug", *cfg.LogLevel)
}

func TestLoadFile_TOML(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, ".ledgerprobe.toml", `threads = 3
context_radius = 20
high_entropy_threshold = 7.2
strides = [8, 16]

[patterns]
invoice = 'INV-\d{6}'

[[signatures]]
label = "CUSTOM"
hex = "cafe"
`)
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 3, *cfg.Threads)
	require.NotNil(t, cfg.ContextRadius)
	assert.Equal(t, 20, *cfg.ContextRadius)
	require.NotNil(t, cfg.HighEntropy)
	assert.Equal(t, 7.2, *cfg.HighEntropy)
	assert.Equal(t, []int{8, 16}, cfg.Strides)
	assert.Equal(t, `INV-\d{6}`, cfg.Patterns["invoice"])
	assert.Len(t, cfg.Signatures, 1)
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFile(writeTemp(t, dir, "bad.yml", "threads: [\n"))
	assert.Error(t, err)
	_, err = LoadFile(writeTemp(t, dir, "bad.toml", "threads = \n"))
	assert.Error(t, err)
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "ledgerprobe.yaml", "threads: 1\n")
	writeTemp(t, dir, ".ledgerprobe.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .ledgerprobe.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); err == nil {
		t.Fatal("expected error when no local config exists")
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "ledgerprobe")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.toml", "threads = 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 9 {
		t.Fatalf("expected threads=9 from global config, got %#v", cfg.Threads)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestApply(t *testing.T) {
	threads, count, radius := 2, 64, 10
	ratio, entropy := 0.9, 7.0
	include := "*.bin"
	fc := FileConfig{
		Threads:          &threads,
		FieldScanCount:   &count,
		ContextRadius:    &radius,
		HighEntropy:      &entropy,
		StrideMatchRatio: &ratio,
		Include:          &include,
		BlockSizes:       []int{128},
		Signatures:       []SignatureEntry{{Label: "CUSTOM", Hex: "cafe"}},
		Patterns:         map[string]string{"invoice": `INV-\d{6}`},
		DisablePatterns:  []string{"md5"},
	}
	base := engine.DefaultConfig()
	got, err := fc.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Threads)
	assert.Equal(t, 64, got.Fields.Count)
	assert.Equal(t, 10, got.PatternOptions.ContextRadius)
	assert.Equal(t, 7.0, got.Entropy.HighThreshold)
	assert.Equal(t, 7.0, got.Confidence.EntropyThreshold)
	assert.Equal(t, 0.9, got.Structure.StrideMatchRatio)
	assert.Equal(t, "*.bin", got.IncludeGlobs)
	assert.Equal(t, []int{128}, got.Structure.BlockSizes)
	assert.Len(t, got.Signatures, len(base.Signatures)+1)
	assert.Equal(t, "CUSTOM", got.Signatures[len(got.Signatures)-1].Label)
	assert.Equal(t, []byte{0xca, 0xfe}, got.Signatures[len(got.Signatures)-1].Marker)
	assert.Equal(t, `INV-\d{6}`, got.PatternOptions.Extra["invoice"])
	assert.Equal(t, []string{"md5"}, got.PatternOptions.Disable)

	// untouched fields keep their defaults
	assert.Equal(t, base.MaxFields, got.MaxFields)
	assert.Len(t, base.Signatures, len(engine.DefaultConfig().Signatures))

	_, err = engine.New(got)
	require.NoError(t, err)
}

func TestApply_BadSignature(t *testing.T) {
	fc := FileConfig{Signatures: []SignatureEntry{{Label: "X", Hex: "zz"}}}
	_, err := fc.Apply(engine.DefaultConfig())
	assert.Error(t, err)
}

func TestApply_RejectsOutOfRangeThresholds(t *testing.T) {
	zero, over, ok := 0.0, 9.0, 0.5
	cases := []struct {
		name string
		fc   FileConfig
		key  string
	}{
		{"stride ratio zero", FileConfig{StrideMatchRatio: &zero}, "stride_match_ratio"},
		{"null ratio zero", FileConfig{NullRatio: &zero}, "null_ratio_threshold"},
		{"entropy above max", FileConfig{HighEntropy: &over}, "high_entropy_threshold"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fc.Apply(engine.DefaultConfig())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}

	got, err := FileConfig{StrideMatchRatio: &ok}.Apply(engine.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Structure.StrideMatchRatio)
}

func TestLoadFile_ZeroStrideRatioRejectedOnApply(t *testing.T) {
	p := writeTemp(t, t.TempDir(), ".ledgerprobe.yml", "stride_match_ratio: 0\n")
	fc, err := LoadFile(p)
	require.NoError(t, err)
	require.NotNil(t, fc.StrideMatchRatio)
	_, err = fc.Apply(engine.DefaultConfig())
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	threads := 5
	fc := FileConfig{Threads: &threads, Strides: []int{4}}
	for _, format := range []string{"yaml", "toml"} {
		b, err := Marshal(fc, format)
		require.NoError(t, err)
		p := writeTemp(t, t.TempDir(), "c."+format, string(b))
		got, err := LoadFile(p)
		require.NoError(t, err)
		require.NotNil(t, got.Threads, format)
		assert.Equal(t, 5, *got.Threads)
		assert.Equal(t, []int{4}, got.Strides)
		assert.Nil(t, got.MaxBytes)
	}
}
