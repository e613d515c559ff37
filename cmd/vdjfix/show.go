package main

import (
	"fmt"
	"sort"

	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/config"
	"github.com/franz/vdjfix/internal/playlist"
	"github.com/franz/vdjfix/internal/util"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show catalog statistics and the playlist folder tree",
	Long: `Display a summary of the current catalog (file counts by type) and
the Folders/MyLists playlist tree, in a box-drawing tree layout.

Use --catalog-only or --tree-only to narrow the output, and --depth to
limit how deep the tree is rendered.`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("catalog-only", false, "show only the catalog summary")
	showCmd.Flags().Bool("tree-only", false, "show only the playlist tree")
	showCmd.Flags().IntP("depth", "L", 0, "limit tree depth (0 = unlimited)")
}

func runShow(cmd *cobra.Command, args []string) error {
	s := loadSettings()
	catalogOnly, _ := cmd.Flags().GetBool("catalog-only")
	treeOnly, _ := cmd.Flags().GetBool("tree-only")
	depth, _ := cmd.Flags().GetInt("depth")

	if !treeOnly {
		if err := showCatalogSummary(s.CatalogPath); err != nil {
			return err
		}
		fmt.Println()
	}

	if !catalogOnly {
		if err := showPlaylistTree(s, depth); err != nil {
			return err
		}
	}

	return nil
}

func showCatalogSummary(catalogPath string) error {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		util.WarnLog("Catalog not available: %v", err)
		return nil
	}

	stats := cat.Stats()
	util.InfoLog("=== Catalog ===")
	util.InfoLog("Path: %s", catalogPath)
	util.InfoLog("Last update: %s", cat.LastUpdate().Format("2006-01-02 15:04:05"))
	util.InfoLog("Total files: %d", stats.TotalFiles)

	types := make([]string, 0, len(stats.ByType))
	for t := range stats.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		util.InfoLog("  %s: %d", t, stats.ByType[t])
	}
	return nil
}

func showPlaylistTree(s *config.Settings, depth int) error {
	store := newPlaylistStore(s)

	nodes, err := store.Tree()
	if err != nil {
		return fmt.Errorf("list playlists: %w", err)
	}
	if len(nodes) == 0 {
		util.WarnLog("No playlist folders found under %s / %s", s.FoldersRoot, s.MyListsRoot)
		return nil
	}

	util.InfoLog("=== Playlists ===")
	fmt.Println(".")

	var stats treeStats
	for i, n := range nodes {
		isLast := i == len(nodes)-1
		renderNode(n, "", isLast, depth, 1, &stats)
	}

	fmt.Printf("\n%d folder(s), %d playlist(s)\n", stats.folders, stats.playlists)
	return nil
}

type treeStats struct {
	folders   int
	playlists int
}

func renderNode(n *playlist.Node, prefix string, isLast bool, maxDepth, level int, stats *treeStats) {
	connector := "├── "
	extension := "│   "
	if isLast {
		connector = "└── "
		extension = "    "
	}

	name := n.Name
	if n.Type == playlist.NodeFolder {
		stats.folders++
		name += "/"
	} else {
		stats.playlists++
		name += fmt.Sprintf(" (%d songs)", n.SongCount)
	}

	fmt.Println(prefix + connector + name)

	if n.Type != playlist.NodeFolder || len(n.Children) == 0 {
		return
	}
	if maxDepth > 0 && level >= maxDepth {
		return
	}

	childPrefix := prefix + extension
	for i, c := range n.Children {
		renderNode(c, childPrefix, i == len(n.Children)-1, maxDepth, level+1, stats)
	}
}
