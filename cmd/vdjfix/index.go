package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/indexer"
	"github.com/franz/vdjfix/internal/util"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [libraryRoot]",
	Short: "Build (or rebuild) the media catalog from a library root",
	Long: `Walk libraryRoot, classify every file by extension, and build a fresh
catalog of media records. The previous catalog (if any) is replaced
atomically; a failed or cancelled run leaves it untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report catalog size and last update time",
	RunE:  runIndexStatus,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexStatusCmd)
	indexCmd.Flags().Int("concurrency", 4, "number of files to classify in parallel")
}

func runIndex(cmd *cobra.Command, args []string) error {
	s := loadSettings()
	root := s.LibraryRoot
	if len(args) == 1 {
		root = args[0]
	}
	if root == "" {
		return fmt.Errorf("library root is required (positional arg, --library-root, or library.root config)")
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")

	cat := catalog.New(s.CatalogPath)
	ix := indexer.New(indexer.Config{Catalog: cat, Concurrency: concurrency})

	report, err := ix.Build(context.Background(), root)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	util.SuccessLog("Indexed %d files in %s (%d errors)", report.TotalFiles, report.Duration.Round(time.Millisecond), report.ErrorCount)
	for _, fe := range report.ErrorDetails {
		util.WarnLog("  %s: %s", fe.Path, fe.Message)
	}
	return nil
}

func runIndexStatus(cmd *cobra.Command, args []string) error {
	s := loadSettings()
	cat, err := catalog.Load(s.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	stats := cat.Stats()
	util.InfoLog("Catalog: %s", s.CatalogPath)
	util.InfoLog("Total files: %d", stats.TotalFiles)
	util.InfoLog("Last update: %s", cat.LastUpdate().Format(time.RFC3339))
	return nil
}
