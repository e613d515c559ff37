// Package rewriter performs tree-wide playlist repair: replacing or
// removing song references across every .vdjfolder under both roots
// (§4.9).
package rewriter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/franz/vdjfix/internal/playlist"
	"github.com/franz/vdjfix/internal/report"
)

// Rewriter drives rewriteAll/removeFromAll against a playlist Store.
type Rewriter struct {
	store   *playlist.Store
	logsDir string
	logger  *report.EventLogger
}

// Config configures a Rewriter.
type Config struct {
	Store   *playlist.Store
	LogsDir string
	Logger  *report.EventLogger
}

// New builds a Rewriter.
func New(cfg Config) *Rewriter {
	return &Rewriter{store: cfg.Store, logsDir: cfg.LogsDir, logger: cfg.Logger}
}

// PlaylistChange records, for the change ledger, one playlist's path and
// how many of its songs changed. The individual old and new song paths are
// not recorded.
type PlaylistChange struct {
	PlaylistPath string `json:"playlistPath"`
	SongsChanged int    `json:"songsChanged"`
}

// RewriteReport is the outcome of one rewriteAll call.
type RewriteReport struct {
	PlaylistsChecked int               `json:"playlistsChecked"`
	PlaylistsUpdated int               `json:"playlistsUpdated"`
	SongsUpdated     int               `json:"songsUpdated"`
	UpdatedPlaylists []PlaylistChange  `json:"updatedPlaylists"`
	LogFile          string            `json:"logFile"`
}

// RewriteAll enumerates every .vdjfolder under both roots and, for every
// song whose path matches (normalized) an oldPath in items, rewrites it to
// the paired newPath. Per-playlist parse errors are logged and skipped; the
// aggregate operation still reports partial success (§7 policy).
func (r *Rewriter) RewriteAll(items []playlist.PathPair) (*RewriteReport, error) {
	start := time.Now()

	paths, err := r.store.Walk()
	if err != nil {
		return nil, fmt.Errorf("walk playlists: %w", err)
	}

	report := &RewriteReport{PlaylistsChecked: len(paths)}
	for _, p := range paths {
		n, err := r.store.UpdateRewrite(p, items)
		if err != nil {
			r.logger.LogSkip(p, err.Error())
			continue
		}
		if n == 0 {
			continue
		}
		report.PlaylistsUpdated++
		report.SongsUpdated += n
		report.UpdatedPlaylists = append(report.UpdatedPlaylists, PlaylistChange{PlaylistPath: p, SongsChanged: n})
		r.logger.LogRewrite(p, n)
	}

	logFile, err := r.writeChangeLedger("global_update_log", summaryFor(report), report.UpdatedPlaylists, start)
	if err != nil {
		return report, fmt.Errorf("write change ledger: %w", err)
	}
	report.LogFile = logFile
	return report, nil
}

// RemoveReport is the outcome of one removeFromAll call.
type RemoveReport struct {
	RemovedFromPlaylists []PlaylistChange `json:"removedFromPlaylists"`
	TotalPlaylistsChecked int             `json:"totalPlaylistsChecked"`
	TotalRemovedCount     int             `json:"totalRemovedCount"`
	LogFile               string          `json:"logFile"`
}

// RemoveFromAll drops every song reference matching (normalized) songPath
// from every playlist under both roots (§4.9).
func (r *Rewriter) RemoveFromAll(songPath string) (*RemoveReport, error) {
	start := time.Now()

	paths, err := r.store.Walk()
	if err != nil {
		return nil, fmt.Errorf("walk playlists: %w", err)
	}

	report := &RemoveReport{TotalPlaylistsChecked: len(paths)}
	for _, p := range paths {
		n, err := r.store.RemoveSong(p, songPath)
		if err != nil {
			r.logger.LogSkip(p, err.Error())
			continue
		}
		if n == 0 {
			continue
		}
		report.TotalRemovedCount += n
		report.RemovedFromPlaylists = append(report.RemovedFromPlaylists, PlaylistChange{PlaylistPath: p, SongsChanged: n})
		r.logger.LogRemove(p, n)
	}

	logFile, err := r.writeChangeLedger("global_update_log",
		fmt.Sprintf("removed %d reference(s) to %s from %d playlist(s)", report.TotalRemovedCount, songPath, len(report.RemovedFromPlaylists)),
		report.RemovedFromPlaylists, start)
	if err != nil {
		return report, fmt.Errorf("write change ledger: %w", err)
	}
	report.LogFile = logFile
	return report, nil
}

func summaryFor(r *RewriteReport) string {
	return fmt.Sprintf("updated %d song reference(s) across %d of %d playlist(s)", r.SongsUpdated, r.PlaylistsUpdated, r.PlaylistsChecked)
}

type changeLedger struct {
	Timestamp        time.Time         `json:"timestamp"`
	Summary          string            `json:"summary"`
	UpdatedPlaylists []string          `json:"updatedPlaylists"`
	AllChanges       []PlaylistChange  `json:"allChanges"`
}

// writeChangeLedger persists the run's change ledger to
// logs/global_update_log_*.json (§4.9 step 4, §6 run logs).
func (r *Rewriter) writeChangeLedger(prefix, summary string, changes []PlaylistChange, at time.Time) (string, error) {
	if r.logsDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(r.logsDir, 0755); err != nil {
		return "", err
	}

	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.PlaylistPath)
	}

	ledger := changeLedger{
		Timestamp:        at,
		Summary:          summary,
		UpdatedPlaylists: names,
		AllChanges:       changes,
	}
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.json", prefix, at.Format("20060102_150405"))
	path := filepath.Join(r.logsDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
