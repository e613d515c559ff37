// Package config layers CLI flags, environment variables (VDJFIX_*), a
// config file, and defaults into a single typed settings struct, following
// the teacher's viper-backed precedence (flag > env > file > default).
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Settings holds every tunable the resolver, indexer, and playlist store
// need (§6 config keys).
type Settings struct {
	LibraryRoot    string
	FoldersRoot    string
	MyListsRoot    string
	CatalogPath    string
	LogsDir        string

	FuzzySearch        bool
	Tau                float64
	MinMeaningfulMatch int
	ArtistBonusWeight  float64
	CacheTTLSeconds    int
	CacheMaxEntries    int
}

const envPrefix = "VDJFIX"

// defaults mirrors the values baked into the resolver/matcher/similarity
// packages themselves, so config.Load() without any file or env still
// produces a usable Settings.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"library.root":               "",
		"playlists.foldersRoot":      "",
		"playlists.myListsRoot":      "",
		"catalog.path":               "catalog.json",
		"logs.dir":                   "logs",
		"resolver.fuzzySearch":       true,
		"resolver.tau":               0.3,
		"resolver.minMeaningfulMatch": 1,
		"resolver.artistBonusWeight": 0.1,
		"resolver.cacheTTLSeconds":   600,
		"resolver.cacheMaxEntries":   1000,
	}
}

// Load builds Settings from (in ascending precedence) defaults, an optional
// config file, and VDJFIX_*-prefixed environment variables. cfgFile may be
// empty, in which case only the working directory's vdjfix.yaml (if
// present) and env/defaults apply. Load owns a private viper instance; use
// FromViper when the caller (e.g. the CLI) already has flags bound to the
// global instance.
func Load(cfgFile string) (*Settings, error) {
	v := viper.New()

	for key, val := range defaults() {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("vdjfix")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return FromViper(v), nil
}

// FromViper reads Settings out of an already-configured *viper.Viper (flags,
// env, file, and defaults already bound by the caller). The CLI uses this
// against the global instance so persistent flags take precedence without
// re-parsing a second config file.
func FromViper(v *viper.Viper) *Settings {
	for key, val := range defaults() {
		v.SetDefault(key, val)
	}

	return &Settings{
		LibraryRoot:        v.GetString("library.root"),
		FoldersRoot:        v.GetString("playlists.foldersRoot"),
		MyListsRoot:        v.GetString("playlists.myListsRoot"),
		CatalogPath:        v.GetString("catalog.path"),
		LogsDir:            v.GetString("logs.dir"),
		FuzzySearch:        v.GetBool("resolver.fuzzySearch"),
		Tau:                v.GetFloat64("resolver.tau"),
		MinMeaningfulMatch: v.GetInt("resolver.minMeaningfulMatch"),
		ArtistBonusWeight:  v.GetFloat64("resolver.artistBonusWeight"),
		CacheTTLSeconds:    v.GetInt("resolver.cacheTTLSeconds"),
		CacheMaxEntries:    v.GetInt("resolver.cacheMaxEntries"),
	}
}
