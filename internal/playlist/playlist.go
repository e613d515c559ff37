// Package playlist parses, enumerates, and rewrites .vdjfolder playlist
// files, and walks the dual-rooted Folders/MyLists tree (§4.7).
package playlist

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/franz/vdjfix/internal/util"
)

const (
	subfoldersSuffix  = ".subfolders"
	playlistSuffix    = ".vdjfolder"
	excludedLibraryDir = "My Library" + subfoldersSuffix
)

// NodeType distinguishes a directory node from a playlist-file node.
type NodeType string

const (
	NodeFolder   NodeType = "folder"
	NodePlaylist NodeType = "playlist"
)

// Node is one entry in the playlist tree (§3: Playlist).
type Node struct {
	ID        string
	Name      string
	Path      string
	Type      NodeType
	SongCount int
	Children  []*Node
}

// SongReference is a song path plus its filesystem existence, stamped at
// read time (§3).
type SongReference struct {
	Path   string
	Exists bool
}

// PathPair is one (oldPath -> newPath) substitution request.
type PathPair struct {
	OldPath string
	NewPath string
}

// Store is the playlist store bound to the two tree roots.
type Store struct {
	FoldersRoot string
	MyListsRoot string
}

// New builds a Store bound to the two absolute root directories.
func New(foldersRoot, myListsRoot string) *Store {
	return &Store{FoldersRoot: foldersRoot, MyListsRoot: myListsRoot}
}

// Tree produces the dual-rooted Folder/Playlist tree (§4.7 tree()).
func (s *Store) Tree() ([]*Node, error) {
	var out []*Node
	for _, root := range []struct {
		path, name string
	}{
		{s.FoldersRoot, "Folders"},
		{s.MyListsRoot, "MyLists"},
	} {
		if _, err := os.Stat(root.path); err != nil {
			return nil, fmt.Errorf("%w: %s", util.ErrRootMissing, root.path)
		}
		children, err := s.buildTree(root.path)
		if err != nil {
			return nil, err
		}
		out = append(out, &Node{
			ID:       hexID(root.path),
			Name:     root.name,
			Path:     root.path,
			Type:     NodeFolder,
			Children: children,
		})
	}
	return out, nil
}

// buildTree recursively admits nodes per §4.7: a directory is admitted
// (and traversed) only if its name has the ".subfolders" suffix and it
// yields at least one admitted child; a file is admitted only if it has
// the ".vdjfolder" suffix and parses with at least one <song>.
func (s *Store) buildTree(dir string) ([]*Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil // unreadable subtree: skip, per §7 per-playlist error policy
	}

	var nodes []*Node
	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)

		switch {
		case entry.IsDir() && strings.HasSuffix(name, subfoldersSuffix):
			if name == excludedLibraryDir {
				continue
			}
			children, err := s.buildTree(full)
			if err != nil {
				return nil, err
			}
			if len(children) == 0 {
				continue
			}
			nodes = append(nodes, &Node{
				ID:       hexID(full),
				Name:     strings.TrimSuffix(name, subfoldersSuffix),
				Path:     full,
				Type:     NodeFolder,
				Children: children,
			})

		case !entry.IsDir() && strings.HasSuffix(name, playlistSuffix):
			node, err := parsePlaylistNode(full)
			if err != nil {
				util.WarnLog("skipping unparseable playlist %s: %v", full, err)
				continue
			}
			if node == nil {
				continue // zero <song> elements: excluded
			}
			nodes = append(nodes, node)
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if (nodes[i].Type == NodeFolder) != (nodes[j].Type == NodeFolder) {
			return nodes[i].Type == NodeFolder
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	return nodes, nil
}

// Read parses playlistPath and stamps each song with filesystem existence
// (§4.7 read()).
func (s *Store) Read(playlistPath string) ([]SongReference, error) {
	doc, err := parsePlaylistFile(playlistPath)
	if err != nil {
		return nil, err
	}
	refs := make([]SongReference, 0, len(doc.Songs))
	for _, song := range doc.Songs {
		p := song.Path()
		_, statErr := os.Stat(p)
		refs = append(refs, SongReference{Path: p, Exists: statErr == nil})
	}
	return refs, nil
}

// Update applies pairs to playlistPath: for each song whose path equals an
// oldPath byte-exactly, set it to the paired newPath (§4.7 update()).
// Returns the count of songs updated; ErrNoMatches if zero.
func (s *Store) Update(playlistPath string, pairs []PathPair) (int, error) {
	doc, err := parsePlaylistFile(playlistPath)
	if err != nil {
		return 0, err
	}

	byOld := make(map[string]string, len(pairs))
	for _, p := range pairs {
		byOld[p.OldPath] = p.NewPath
	}

	updated := 0
	for i := range doc.Songs {
		if newPath, ok := byOld[doc.Songs[i].Path()]; ok {
			doc.Songs[i].SetPath(newPath)
			updated++
		}
	}
	if updated == 0 {
		return 0, util.ErrNoMatches
	}
	if err := writePlaylistFile(playlistPath, doc); err != nil {
		return 0, err
	}
	return updated, nil
}

// NormalizePath is the case-insensitive, cleaned-path equality used by
// rewriteAll and removeFromAll, deliberately looser than Update's
// byte-exact comparison (§9: the divergence is intentional and load-bearing
// since playlists commonly store paths in varied case on macOS). It always
// folds case, regardless of the host filesystem's own case sensitivity,
// since the divergence from Update is a playlist-authoring convention, not
// a filesystem property.
func NormalizePath(p string) string {
	return util.NormalizePath(p, false)
}

// UpdateRewrite applies pairs to playlistPath using normalized path
// equality, for the global rewriter (§4.9 step 2). Returns the count of
// songs changed; the playlist is only rewritten to disk if count > 0.
func (s *Store) UpdateRewrite(playlistPath string, pairs []PathPair) (int, error) {
	doc, err := parsePlaylistFile(playlistPath)
	if err != nil {
		return 0, err
	}

	byOld := make(map[string]string, len(pairs))
	for _, p := range pairs {
		byOld[NormalizePath(p.OldPath)] = p.NewPath
	}

	updated := 0
	for i := range doc.Songs {
		if newPath, ok := byOld[NormalizePath(doc.Songs[i].Path())]; ok {
			doc.Songs[i].SetPath(newPath)
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	if err := writePlaylistFile(playlistPath, doc); err != nil {
		return 0, err
	}
	return updated, nil
}

// RemoveSong drops every song whose normalized path equals the normalized
// songPath (§4.9 removeFromAll). If the playlist ends up with zero songs,
// the <song> subtree is naturally absent from the serialized output.
// Returns the count removed; the playlist is only rewritten if count > 0.
func (s *Store) RemoveSong(playlistPath, songPath string) (int, error) {
	doc, err := parsePlaylistFile(playlistPath)
	if err != nil {
		return 0, err
	}

	target := NormalizePath(songPath)
	kept := doc.Songs[:0]
	removed := 0
	for _, song := range doc.Songs {
		if NormalizePath(song.Path()) == target {
			removed++
			continue
		}
		kept = append(kept, song)
	}
	if removed == 0 {
		return 0, nil
	}
	doc.Songs = kept
	if err := writePlaylistFile(playlistPath, doc); err != nil {
		return 0, err
	}
	return removed, nil
}

// Walk yields every .vdjfolder path under both roots (used by the global
// rewriter, §4.9), excluding the My Library.subfolders subtree.
func (s *Store) Walk() ([]string, error) {
	var paths []string
	for _, root := range []string{s.FoldersRoot, s.MyListsRoot} {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		if err := walkPlaylists(root, &paths); err != nil {
			return nil, err
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func walkPlaylists(dir string, out *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		if entry.IsDir() {
			if name == excludedLibraryDir {
				continue
			}
			if err := walkPlaylists(full, out); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(name, playlistSuffix) {
			*out = append(*out, full)
		}
	}
	return nil
}

// parsePlaylistNode parses a .vdjfolder file into a tree Node, or returns
// (nil, nil) if it has zero <song> elements (excluded per §4.7).
func parsePlaylistNode(path string) (*Node, error) {
	doc, err := parsePlaylistFile(path)
	if err != nil {
		return nil, err
	}
	if len(doc.Songs) == 0 {
		return nil, nil
	}
	name := strings.TrimSuffix(filepath.Base(path), playlistSuffix)
	return &Node{
		ID:        hexID(path),
		Name:      name,
		Path:      path,
		Type:      NodePlaylist,
		SongCount: len(doc.Songs),
	}, nil
}

func parsePlaylistFile(path string) (*virtualFolder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc virtualFolder
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrPlaylistParse, path, err)
	}
	return &doc, nil
}

func writePlaylistFile(path string, doc *virtualFolder) error {
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	out := append([]byte(xml.Header), data...)
	return os.WriteFile(path, out, 0644)
}

// hexID is the hex-encoded UTF-8 of the absolute path, using forward
// slashes regardless of platform (§3: "IDs are hex-encoded UTF-8 of the
// absolute path").
func hexID(path string) string {
	return hex.EncodeToString([]byte(filepath.ToSlash(path)))
}
