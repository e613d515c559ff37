package main

import (
	"time"

	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/config"
	"github.com/franz/vdjfix/internal/matcher"
	"github.com/franz/vdjfix/internal/playlist"
	"github.com/franz/vdjfix/internal/report"
	"github.com/franz/vdjfix/internal/resolver"
	"github.com/franz/vdjfix/internal/rewriter"
	"github.com/franz/vdjfix/internal/similarity"
	"github.com/spf13/viper"
)

func loadSettings() *config.Settings {
	return config.FromViper(viper.GetViper())
}

func openCatalog(s *config.Settings) (*catalog.Catalog, error) {
	return catalog.Load(s.CatalogPath)
}

func newLogger() *report.EventLogger {
	s := loadSettings()
	level := report.LevelInfo
	if viper.GetBool("quiet") {
		level = report.LevelWarning
	} else if viper.GetBool("verbose") {
		level = report.LevelDebug
	}

	logger, err := report.NewEventLogger(s.LogsDir, level)
	if err != nil {
		return report.NullLogger()
	}
	return logger
}

func newMatcher(cat *catalog.Catalog, s *config.Settings) *matcher.Matcher {
	scorer := similarity.New(similarity.Config{
		MinMeaningfulMatch: s.MinMeaningfulMatch,
		ArtistBonusWeight:  s.ArtistBonusWeight,
	})
	return matcher.New(cat, scorer)
}

func newCoordinator(cat *catalog.Catalog, s *config.Settings, logger *report.EventLogger) *resolver.Coordinator {
	return resolver.New(resolver.Config{
		Catalog:         cat,
		Matcher:         newMatcher(cat, s),
		LogsDir:         s.LogsDir,
		Logger:          logger,
		CacheTTL:        time.Duration(s.CacheTTLSeconds) * time.Second,
		CacheMaxEntries: s.CacheMaxEntries,
	})
}

func newPlaylistStore(s *config.Settings) *playlist.Store {
	return playlist.New(s.FoldersRoot, s.MyListsRoot)
}

func newRewriter(s *config.Settings, logger *report.EventLogger) *rewriter.Rewriter {
	return rewriter.New(rewriter.Config{
		Store:   newPlaylistStore(s),
		LogsDir: s.LogsDir,
		Logger:  logger,
	})
}
