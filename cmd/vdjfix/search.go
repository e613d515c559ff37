package main

import (
	"context"
	"fmt"

	"github.com/franz/vdjfix/internal/resolver"
	"github.com/franz/vdjfix/internal/util"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <path...>",
	Short: "Resolve one or more broken song paths against the catalog",
	Long: `Dispatch each path through the match cascade (exact path, same-folder
rename, moved file, renamed-and-moved file, fuzzy name match) and report
the best candidate for each, along with aggregated per-stage timing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Bool("no-fuzzy", false, "disable the fuzzy match stage (T5)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	s := loadSettings()
	noFuzzy, _ := cmd.Flags().GetBool("no-fuzzy")

	cat, err := openCatalog(s)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	logger := newLogger()
	defer logger.Close()

	coord := newCoordinator(cat, s, logger)
	res, err := coord.SearchMany(context.Background(), args, resolver.Options{
		FuzzySearch: s.FuzzySearch && !noFuzzy,
		Tau:         s.Tau,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	for _, r := range res.Results {
		if r.Status == "error" {
			util.ErrorLog("%s: %s", r.QueryPath, r.Error)
			continue
		}
		if !r.Found {
			util.WarnLog("%s: not found", r.QueryPath)
			continue
		}
		util.SuccessLog("%s -> %s (%s, similarity %.2f)", r.QueryPath, r.FoundPath, r.MatchType, r.Similarity)
	}
	util.InfoLog("Total: %.1fms, mean per query: %.1fms", float64(res.Stats.TotalMs), res.Stats.MeanPerQueryMs)
	return nil
}
