package util

import "errors"

// Sentinel errors surfaced by the resolver core. Callers match with errors.Is.
var (
	// ErrRootMissing indicates the library root or a playlist root does not exist.
	ErrRootMissing = errors.New("root missing")

	// ErrPlaylistParse indicates a playlist file is malformed XML or lacks a VirtualFolder root.
	ErrPlaylistParse = errors.New("playlist parse error")

	// ErrNoMatches indicates an update request matched zero songs.
	ErrNoMatches = errors.New("no matches")

	// ErrFileTooLarge indicates a streaming helper declined a file for size reasons.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFormat indicates a file extension outside the supported table.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrIndexBusy indicates a second index build was attempted while one is in progress.
	ErrIndexBusy = errors.New("index build already in progress")

	// ErrCatalogCorrupt indicates the catalog JSON could not be parsed at load time.
	ErrCatalogCorrupt = errors.New("catalog corrupt")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound indicates a required resource was not found.
	ErrNotFound = errors.New("not found")
)
