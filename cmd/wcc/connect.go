package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wcc/internal/config"
	"wcc/internal/emit"
	"wcc/internal/pipeline"
	"wcc/internal/storage"
	"wcc/internal/vfs"
)

var (
	connectRecursive       bool
	connectDryRun          bool
	connectTargets         string
	connectStrict          bool
	connectContinueOnError bool
	connectImportPath      string
	connectForce           bool
	connectNoCache         bool
	connectReportOut       string
	connectFormat          string
	connectNodeURL         string
)

var connectCmd = &cobra.Command{
	Use:   "connect <path>",
	Short: "Generate connect files for the components under <path>",
	Long: `Scans <path> for annotated component classes, resolves each class's
full inheritance chain, and writes one connect file per component per
target. Existing files are patched inside their generated sections only;
files without the expected markers are left untouched.

Examples:
  wcc connect ./src/components
  wcc connect ./src --recursive --targets html,react
  wcc connect ./src/components/button.ts --dry-run --format json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runConnect(cmd, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().BoolVarP(&connectRecursive, "recursive", "r", false,
		"Descend into subdirectories")
	connectCmd.Flags().BoolVar(&connectDryRun, "dry-run", false,
		"Report what would change without writing anything")
	connectCmd.Flags().StringVar(&connectTargets, "targets", "",
		fmt.Sprintf("Comma-separated emit targets (available: %s)",
			strings.Join(emit.DefaultRegistry().TargetIDs(), ", ")))
	connectCmd.Flags().BoolVar(&connectStrict, "strict", false,
		"Treat unresolved base classes as errors")
	connectCmd.Flags().BoolVar(&connectContinueOnError, "continue-on-error", true,
		"Keep processing remaining components after a failure")
	connectCmd.Flags().StringVar(&connectImportPath, "import-path", "",
		"Override the import path used in emitted files")
	connectCmd.Flags().BoolVar(&connectForce, "force", false,
		"Replace output files wholesale instead of patching sections")
	connectCmd.Flags().BoolVar(&connectNoCache, "no-cache", false,
		"Skip the generation cache for this run")
	connectCmd.Flags().StringVar(&connectReportOut, "report-out", "",
		"Write the run report to this path (.json, .yaml, optionally .zst)")
	connectCmd.Flags().StringVar(&connectFormat, "format", "human",
		"Output format: json or human")
	connectCmd.Flags().StringVar(&connectNodeURL, "node-url", "",
		"Design node URL placed in freshly created connect files")
}

func runConnect(cmd *cobra.Command, root string) int {
	logger := newLogger(connectFormat, nil)

	cfg, err := config.Load(projectRootOf(root))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		return 1
	}
	logger = newLogger(connectFormat, &cfg.Logging)

	opts := pipeline.Options{
		Root:               root,
		Recursive:          cfg.Generate.Recursive,
		DryRun:             connectDryRun,
		Targets:            cfg.Generate.Targets,
		Strict:             cfg.Generate.Strict,
		ContinueOnError:    cfg.Generate.ContinueOnError,
		ImportPathOverride: cfg.Generate.ImportPath,
		Force:              connectForce,
		NoCache:            connectNoCache,
		NodeURL:            cfg.Generate.NodeURL,
	}
	// Flags beat config, but only when given.
	if cmd.Flags().Changed("recursive") {
		opts.Recursive = connectRecursive
	}
	if cmd.Flags().Changed("targets") {
		opts.Targets = splitTargets(connectTargets)
	}
	if cmd.Flags().Changed("strict") {
		opts.Strict = connectStrict
	}
	if cmd.Flags().Changed("continue-on-error") {
		opts.ContinueOnError = connectContinueOnError
	}
	if cmd.Flags().Changed("import-path") {
		opts.ImportPathOverride = connectImportPath
	}
	if cmd.Flags().Changed("node-url") {
		opts.NodeURL = connectNodeURL
	}

	fsys := vfs.NewOS()

	var cache *storage.GenCache
	if cfg.Cache.Enabled && !connectNoCache {
		db, err := storage.Open(cachePath(root, cfg), logger)
		if err != nil {
			logger.Warn("cache unavailable, continuing without it", "error", err)
		} else {
			defer db.Close()
			cache = storage.NewGenCache(db)
		}
	}

	runner := pipeline.NewRunner(fsys, emit.DefaultRegistry(), cache, logger)
	report, err := runner.Run(cmd.Context(), opts)
	if err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}

	if connectReportOut != "" {
		if err := report.WriteTo(fsys, connectReportOut); err != nil {
			logger.Error("failed to write report", "path", connectReportOut, "error", err)
			return 1
		}
	}

	output, err := FormatResponse(report, OutputFormat(connectFormat))
	if err != nil {
		logger.Error("failed to format output", "error", err)
		return 1
	}
	fmt.Println(output)

	if report.Status == pipeline.RunError {
		return 1
	}
	return 0
}

// projectRootOf maps the scan path to the directory holding .wcc/. A file
// argument configures from its directory.
func projectRootOf(root string) string {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}

// cachePath resolves the configured cache location relative to the project
// root unless it is already absolute.
func cachePath(root string, cfg *config.Config) string {
	p := cfg.Cache.Path
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectRootOf(root), p)
}

func splitTargets(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
