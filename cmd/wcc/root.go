package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"wcc/internal/config"
	"wcc/internal/slogutil"
	"wcc/internal/version"
)

var (
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "wcc",
	Short: "WCC - Web Component Connect",
	Long: `WCC (Web Component Connect) scans annotated web-component sources,
resolves each component's full field and event surface across its class
hierarchy (mixins included), and generates design-tool connect files without
ever touching hand-edited code outside generated sections.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("WCC version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (default: info)")
}

// newLogger builds the command logger. JSON command output gets a stderr
// logger so machine-read stdout stays clean. cfg may be nil before the
// project config is loaded; the flag and environment still apply.
func newLogger(outFormat string, cfg *config.LoggingConfig) *slog.Logger {
	levelStr := logLevelFlag
	if levelStr == "" {
		levelStr = os.Getenv("WCC_LOG_LEVEL")
	}
	if levelStr == "" && cfg != nil {
		levelStr = cfg.Level
	}
	level := slogutil.LevelFromString(levelStr)

	w := os.Stdout
	if outFormat == string(FormatJSON) {
		w = os.Stderr
	}
	if cfg != nil && cfg.Format == "json" {
		return slogutil.NewJSONLogger(w, level)
	}
	return slogutil.NewLogger(w, level)
}
