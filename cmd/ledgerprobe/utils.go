package ledgerprobe

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerprobe/ledgerprobe/internal/config"
	"github.com/ledgerprobe/ledgerprobe/internal/engine"
	"github.com/ledgerprobe/ledgerprobe/internal/logging"
)

// engineOverrides are CLI values that win over config files when set.
type engineOverrides struct {
	fieldCount      int
	fieldStart      int
	contextRadius   int
	maxFields       int
	include         string
	exclude         string
	maxBytes        int64
	defaultExcludes *bool // nil unless --default-excludes was given
}

// loadConfigs returns the local and global file configs. An explicit
// --config file takes the local slot.
func loadConfigs(root string) (local, global config.FileConfig, err error) {
	if c, gerr := config.LoadGlobal(); gerr == nil {
		global = c
	}
	if flagConfig != "" {
		local, err = config.LoadFile(flagConfig)
		return local, global, err
	}
	if c, lerr := config.LoadLocal(root); lerr == nil {
		local = c
	}
	return local, global, nil
}

// configRoot is where the local config is looked up: the first argument if
// it is a directory, its parent if it is a file, else the working directory.
func configRoot(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "."
	}
	if st, err := os.Stat(args[0]); err == nil && !st.IsDir() {
		return filepath.Dir(args[0])
	}
	return args[0]
}

// buildEngineConfig resolves CLI > local > global > defaults.
func buildEngineConfig(root string, o engineOverrides) (engine.Config, error) {
	lcfg, gcfg, err := loadConfigs(root)
	if err != nil {
		return engine.Config{}, err
	}
	cfg := engine.DefaultConfig()
	if cfg, err = gcfg.Apply(cfg); err != nil {
		return cfg, err
	}
	if cfg, err = lcfg.Apply(cfg); err != nil {
		return cfg, err
	}

	cfg.Threads = pickInt(flagThreads, lcfg.Threads, gcfg.Threads)
	cfg.Fields.Count = pickInt(o.fieldCount, lcfg.FieldScanCount, gcfg.FieldScanCount)
	cfg.Fields.Start = pickInt(o.fieldStart, lcfg.FieldStart, gcfg.FieldStart)
	cfg.PatternOptions.ContextRadius = pickInt(o.contextRadius, lcfg.ContextRadius, gcfg.ContextRadius)
	if o.maxFields != 0 {
		cfg.MaxFields = o.maxFields
	}
	cfg.IncludeGlobs = pickString(o.include, lcfg.Include, gcfg.Include)
	cfg.ExcludeGlobs = pickString(o.exclude, lcfg.Exclude, gcfg.Exclude)
	cfg.MaxBytes = pickInt64(o.maxBytes, lcfg.MaxBytes, gcfg.MaxBytes)
	if o.defaultExcludes != nil {
		cfg.DefaultExcludes = *o.defaultExcludes
	}
	cfg.Incremental = flagIncremental

	logCfg := logging.DefaultConfig()
	if lvl := pickString(flagLogLevel, lcfg.LogLevel, gcfg.LogLevel); lvl != "" {
		if logCfg.Level, err = logging.ParseLevel(lvl); err != nil {
			return cfg, err
		}
	}
	if f := pickString(flagLogFormat, lcfg.LogFormat, gcfg.LogFormat); f != "" {
		if logCfg.Format, err = logging.ParseFormat(f); err != nil {
			return cfg, err
		}
	}
	logCfg.Output = os.Stderr
	cfg.Logger = logging.New(logCfg)
	return cfg, nil
}

// changedBool returns v only when the named flag was set on the command line.
func changedBool(cmd *cobra.Command, name string, v bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}
