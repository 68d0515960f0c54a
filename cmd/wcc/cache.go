package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wcc/internal/config"
	"wcc/internal/storage"
)

var (
	cacheRoot   string
	cacheFormat string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the generation cache",
	Long:  `Inspect or clear the sqlite cache that skips regeneration of unchanged components.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cache entry",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCacheClear())
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCacheStats())
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)

	cacheCmd.PersistentFlags().StringVar(&cacheRoot, "root", ".",
		"Project root holding the .wcc directory")
	cacheCmd.PersistentFlags().StringVar(&cacheFormat, "format", "human",
		"Output format: json or human")
}

func openCache() (*storage.DB, *storage.GenCache, string, int) {
	logger := newLogger(cacheFormat, nil)

	cfg, err := config.Load(cacheRoot)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return nil, nil, "", 1
	}

	path := cachePath(cacheRoot, cfg)
	db, err := storage.Open(path, logger)
	if err != nil {
		logger.Error("failed to open cache", "path", path, "error", err)
		return nil, nil, "", 1
	}
	return db, storage.NewGenCache(db), path, 0
}

func runCacheClear() int {
	logger := newLogger(cacheFormat, nil)

	db, cache, path, code := openCache()
	if code != 0 {
		return code
	}
	defer db.Close()

	if err := cache.Clear(); err != nil {
		logger.Error("failed to clear cache", "error", err)
		return 1
	}
	logger.Info("cache cleared", "path", path)
	return 0
}

func runCacheStats() int {
	logger := newLogger(cacheFormat, nil)

	db, cache, path, code := openCache()
	if code != 0 {
		return code
	}
	defer db.Close()

	n, err := cache.Count()
	if err != nil {
		logger.Error("failed to read cache stats", "error", err)
		return 1
	}

	output, err := FormatResponse(&CacheStatsCLI{Path: path, Components: n}, OutputFormat(cacheFormat))
	if err != nil {
		logger.Error("failed to format output", "error", err)
		return 1
	}
	fmt.Println(output)
	return 0
}
