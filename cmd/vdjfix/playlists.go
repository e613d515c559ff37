package main

import (
	"fmt"
	"strings"

	"github.com/franz/vdjfix/internal/playlist"
	"github.com/franz/vdjfix/internal/util"
	"github.com/spf13/cobra"
)

var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "Inspect and repair individual playlists",
}

var playlistsTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "List the Folders/MyLists playlist tree",
	RunE:  runPlaylistsTree,
}

var playlistsReadCmd = &cobra.Command{
	Use:   "read <playlist.vdjfolder>",
	Short: "List a playlist's song references, flagging missing files",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistsRead,
}

var playlistsUpdateCmd = &cobra.Command{
	Use:   "update <playlist.vdjfolder>",
	Short: "Rewrite matching song paths within a single playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistsUpdate,
}

func init() {
	rootCmd.AddCommand(playlistsCmd)
	playlistsCmd.AddCommand(playlistsTreeCmd, playlistsReadCmd, playlistsUpdateCmd)

	playlistsUpdateCmd.Flags().StringSlice("from", nil, "old path(s) to replace, one per --to")
	playlistsUpdateCmd.Flags().StringSlice("to", nil, "new path(s), paired positionally with --from")
}

func runPlaylistsTree(cmd *cobra.Command, args []string) error {
	s := loadSettings()
	store := newPlaylistStore(s)

	nodes, err := store.Tree()
	if err != nil {
		return fmt.Errorf("list playlists: %w", err)
	}
	for _, n := range nodes {
		printNode(n, "")
	}
	return nil
}

func printNode(n *playlist.Node, prefix string) {
	if n.Type == playlist.NodePlaylist {
		util.InfoLog("%s%s (%d songs)", prefix, n.Name, n.SongCount)
		return
	}
	util.InfoLog("%s%s/", prefix, n.Name)
	for _, c := range n.Children {
		printNode(c, prefix+"  ")
	}
}

func runPlaylistsRead(cmd *cobra.Command, args []string) error {
	s := loadSettings()
	store := newPlaylistStore(s)

	refs, err := store.Read(args[0])
	if err != nil {
		return fmt.Errorf("read playlist: %w", err)
	}
	for _, r := range refs {
		if r.Exists {
			util.InfoLog("  %s", r.Path)
		} else {
			util.WarnLog("  %s (missing)", r.Path)
		}
	}
	return nil
}

func runPlaylistsUpdate(cmd *cobra.Command, args []string) error {
	s := loadSettings()
	store := newPlaylistStore(s)

	from, _ := cmd.Flags().GetStringSlice("from")
	to, _ := cmd.Flags().GetStringSlice("to")
	if len(from) == 0 || len(from) != len(to) {
		return fmt.Errorf("--from and --to must be given the same number of times")
	}

	pairs := make([]playlist.PathPair, len(from))
	for i := range from {
		pairs[i] = playlist.PathPair{OldPath: from[i], NewPath: to[i]}
	}

	n, err := store.Update(args[0], pairs)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	util.SuccessLog("Updated %d song reference(s) in %s", n, strings.TrimSpace(args[0]))
	return nil
}
