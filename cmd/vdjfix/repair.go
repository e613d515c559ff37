package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/franz/vdjfix/internal/config"
	"github.com/franz/vdjfix/internal/matcher"
	"github.com/franz/vdjfix/internal/playlist"
	"github.com/franz/vdjfix/internal/util"
	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair [old=new...]",
	Short: "Rewrite, remove, or locate broken song references across every playlist",
	Long: `With one or more old=new arguments, rewrites every playlist that
references old to point at new (normalized path equality).

With --remove <path>, drops every reference to path from every playlist.

With --missing, runs the fuzzy match cascade against every distinct broken
reference in the tree and reports the best candidate for each.`,
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
	repairCmd.Flags().String("remove", "", "remove every reference to this song path")
	repairCmd.Flags().Bool("missing", false, "report best-candidate matches for every missing reference")
}

func runRepair(cmd *cobra.Command, args []string) error {
	s := loadSettings()
	logger := newLogger()
	defer logger.Close()

	if remove, _ := cmd.Flags().GetString("remove"); remove != "" {
		rw := newRewriter(s, logger)
		report, err := rw.RemoveFromAll(remove)
		if err != nil {
			return fmt.Errorf("remove from all: %w", err)
		}
		util.SuccessLog("Removed %d reference(s) across %d playlist(s). Log: %s",
			report.TotalRemovedCount, len(report.RemovedFromPlaylists), report.LogFile)
		return nil
	}

	if missing, _ := cmd.Flags().GetBool("missing"); missing {
		return runListMissingGlobal(s)
	}

	if len(args) == 0 {
		return fmt.Errorf("provide old=new pairs, or use --remove/--missing")
	}

	pairs := make([]playlist.PathPair, 0, len(args))
	for _, a := range args {
		parts := strings.SplitN(a, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid pair %q, expected old=new", a)
		}
		pairs = append(pairs, playlist.PathPair{OldPath: parts[0], NewPath: parts[1]})
	}

	rw := newRewriter(s, logger)
	report, err := rw.RewriteAll(pairs)
	if err != nil {
		return fmt.Errorf("rewrite all: %w", err)
	}
	util.SuccessLog("Checked %d playlist(s), updated %d, %d song reference(s) changed. Log: %s",
		report.PlaylistsChecked, report.PlaylistsUpdated, report.SongsUpdated, report.LogFile)
	return nil
}

// missingReference is one entry of listMissingGlobal's report (§6).
type missingReference struct {
	OriginalPath string
	PlaylistName string
	PlaylistPath string
	Found        bool
	FoundPath    string
	Similarity   float64
	MatchType    string
}

func runListMissingGlobal(s *config.Settings) error {
	cat, err := openCatalog(s)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	store := newPlaylistStore(s)
	m := newMatcher(cat, s)

	paths, err := store.Walk()
	if err != nil {
		return fmt.Errorf("walk playlists: %w", err)
	}

	seen := make(map[string]bool)
	var results []missingReference
	for _, p := range paths {
		refs, err := store.Read(p)
		if err != nil {
			util.WarnLog("skipping %s: %v", p, err)
			continue
		}
		for _, ref := range refs {
			key := util.NormalizePath(ref.Path, false)
			if ref.Exists || seen[key] {
				continue
			}
			seen[key] = true

			res := m.Match(ref.Path, matcher.Options{FuzzySearch: true, Tau: s.Tau})
			results = append(results, missingReference{
				OriginalPath: ref.Path,
				PlaylistName: strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
				PlaylistPath: p,
				Found:        res.Found,
				FoundPath:    res.FoundPath,
				Similarity:   res.Similarity,
				MatchType:    string(res.MatchType),
			})
		}
	}

	for _, r := range results {
		if r.Found {
			util.SuccessLog("%s -> %s (%s, similarity %.2f) [in %q]", r.OriginalPath, r.FoundPath, r.MatchType, r.Similarity, r.PlaylistName)
		} else {
			util.WarnLog("%s: no candidate found [in %q]", r.OriginalPath, r.PlaylistName)
		}
	}
	util.InfoLog("%d distinct missing reference(s) across the tree", len(results))
	return nil
}
