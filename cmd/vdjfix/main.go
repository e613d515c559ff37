package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/franz/vdjfix/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "vdjfix",
		Short: "Relocate broken playlist references against an indexed music library",
		Long: `vdjfix indexes a music library, matches broken playlist references back to
files that moved or were renamed, and repairs the affected playlists.

It maintains a JSON catalog of the library, resolves missing song paths
through a five-stage match cascade (exact path, same-folder rename, moved
file, renamed-and-moved file, fuzzy name match), and can rewrite or prune
references across every playlist on disk.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./vdjfix.yaml)")
	rootCmd.PersistentFlags().String("library-root", "", "music library root directory")
	rootCmd.PersistentFlags().String("folders-root", "", "playlists Folders tree root")
	rootCmd.PersistentFlags().String("mylists-root", "", "playlists MyLists tree root")
	rootCmd.PersistentFlags().String("catalog", "catalog.json", "catalog file path")
	rootCmd.PersistentFlags().String("logs-dir", "logs", "run log output directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	viper.BindPFlag("library.root", rootCmd.PersistentFlags().Lookup("library-root"))
	viper.BindPFlag("playlists.foldersRoot", rootCmd.PersistentFlags().Lookup("folders-root"))
	viper.BindPFlag("playlists.myListsRoot", rootCmd.PersistentFlags().Lookup("mylists-root"))
	viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag("logs.dir", rootCmd.PersistentFlags().Lookup("logs-dir"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("vdjfix")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VDJFIX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}

	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
