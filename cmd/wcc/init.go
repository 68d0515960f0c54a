package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wcc/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default .wcc/config.json",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		os.Exit(runInit(root))
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false,
		"Overwrite an existing config file")
}

func runInit(root string) int {
	logger := newLogger("human", nil)

	cfgPath := filepath.Join(root, ".wcc", "config.json")
	if _, err := os.Stat(cfgPath); err == nil && !initForce {
		logger.Error("config already exists, use --force to overwrite", "path", cfgPath)
		return 1
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(root); err != nil {
		logger.Error("failed to write config", "path", cfgPath, "error", err)
		return 1
	}
	logger.Info("config written", "path", cfgPath)
	return 0
}
