package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/util"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks on the library, playlist roots, and catalog",
	Long: `Run diagnostic checks to ensure vdjfix can operate correctly.

This command checks:
- Library root accessibility
- Playlists Folders/MyLists root accessibility
- Catalog file accessibility and parseability
- Disk space availability

Use this command to troubleshoot issues before running index/repair.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	name    string
	message string
	error   bool
	warning bool
}

func runDoctor(cmd *cobra.Command, args []string) error {
	s := loadSettings()

	util.InfoLog("=== vdjfix Doctor - System Diagnostics ===")
	util.InfoLog("")

	var results []checkResult

	if s.LibraryRoot != "" {
		results = append(results, checkDirectory("Library root", s.LibraryRoot))
		results = append(results, checkDiskSpace(s.LibraryRoot, "library"))
	} else {
		results = append(results, checkResult{name: "Library root", warning: true, message: "not configured"})
	}

	if s.FoldersRoot != "" {
		results = append(results, checkDirectory("Playlists Folders root", s.FoldersRoot))
		results = append(results, checkCaseSensitivity("Playlists Folders root", s.FoldersRoot))
	} else {
		results = append(results, checkResult{name: "Playlists Folders root", warning: true, message: "not configured"})
	}

	if s.MyListsRoot != "" {
		results = append(results, checkDirectory("Playlists MyLists root", s.MyListsRoot))
	} else {
		results = append(results, checkResult{name: "Playlists MyLists root", warning: true, message: "not configured"})
	}

	if s.FoldersRoot != "" && s.MyListsRoot != "" {
		results = append(results, checkDistinctPlaylistRoots(s.FoldersRoot, s.MyListsRoot))
	}

	results = append(results, checkCatalogFile(s.CatalogPath))

	if s.LibraryRoot != "" {
		results = append(results, checkSameFilesystem(s.LibraryRoot, s.CatalogPath))
	}

	util.InfoLog("")
	util.InfoLog("=== Diagnostic Results ===")
	util.InfoLog("")

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		symbol := "✓"
		if r.error {
			symbol = "✗"
			hasErrors = true
		} else if r.warning {
			symbol = "⚠"
			hasWarnings = true
		}

		line := fmt.Sprintf("[%s] %s", symbol, r.name)
		if r.message != "" {
			line += fmt.Sprintf(": %s", r.message)
		}

		if r.error {
			util.ErrorLog("%s", line)
		} else if r.warning {
			util.WarnLog("%s", line)
		} else {
			util.SuccessLog("%s", line)
		}
	}

	util.InfoLog("")
	if hasErrors {
		util.ErrorLog("❌ Some critical checks failed. Please resolve errors before running vdjfix.")
		return fmt.Errorf("system diagnostics failed")
	} else if hasWarnings {
		util.WarnLog("⚠️  Some checks produced warnings. Review them before proceeding.")
	} else {
		util.SuccessLog("✅ All checks passed! System is ready for vdjfix operations.")
	}

	return nil
}

func checkDirectory(name, path string) checkResult {
	info, err := os.Stat(path)
	if err != nil {
		return checkResult{name: name, error: true, message: fmt.Sprintf("cannot access %s: %v", path, err)}
	}
	if !info.IsDir() {
		return checkResult{name: name, error: true, message: fmt.Sprintf("%s is not a directory", path)}
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return checkResult{name: name, error: true, message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	return checkResult{name: name, message: fmt.Sprintf("%s (%d entries)", path, len(entries))}
}

func checkCatalogFile(path string) checkResult {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return checkResult{name: "Catalog", message: fmt.Sprintf("%s (will be created by the first index run)", path)}
		}
		return checkResult{name: "Catalog", error: true, message: fmt.Sprintf("cannot access %s: %v", path, err)}
	}
	if !info.Mode().IsRegular() {
		return checkResult{name: "Catalog", error: true, message: fmt.Sprintf("%s is not a regular file", path)}
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return checkResult{name: "Catalog", error: true, message: fmt.Sprintf("cannot parse %s: %v", path, err)}
	}
	stats := cat.Stats()
	return checkResult{name: "Catalog", message: fmt.Sprintf("%s (%s, %d files)", path, humanize.Bytes(uint64(info.Size())), stats.TotalFiles)}
}

// checkSameFilesystem is informational: a catalog stored on a different
// filesystem than the library root (e.g. a network share) is fine, but
// worth surfacing since it changes the disk-space picture reported above.
func checkSameFilesystem(libraryRoot, catalogPath string) checkResult {
	catalogDir := filepath.Dir(catalogPath)
	if _, err := os.Stat(catalogDir); err != nil {
		return checkResult{name: "Catalog/library placement", message: "catalog directory does not exist yet"}
	}
	same, err := util.IsSameFilesystem(libraryRoot, catalogDir)
	if err != nil {
		return checkResult{name: "Catalog/library placement", warning: true, message: fmt.Sprintf("could not compare: %v", err)}
	}
	if same {
		return checkResult{name: "Catalog/library placement", message: "catalog and library share a filesystem"}
	}
	return checkResult{name: "Catalog/library placement", message: "catalog is on a separate filesystem from the library"}
}

// checkCaseSensitivity reports whether the filesystem backing a playlist
// root folds case, informational context for the rewriteAll/removeFromAll
// normalized-equality rule, which always folds case regardless of what the
// underlying filesystem does.
func checkCaseSensitivity(label, path string) checkResult {
	caseSensitive, err := util.DetectFilesystemCaseSensitivity(path)
	if err != nil {
		return checkResult{name: label + " case sensitivity", warning: true, message: fmt.Sprintf("could not determine: %v", err)}
	}
	if caseSensitive {
		return checkResult{name: label + " case sensitivity", message: "case-sensitive filesystem"}
	}
	return checkResult{name: label + " case sensitivity", message: "case-insensitive filesystem"}
}

// checkDistinctPlaylistRoots catches a misconfiguration where
// FoldersRoot and MyListsRoot have been pointed at the same directory,
// which would make playlist.Store list every playlist under both tree roots
// and make Walk (and so the global rewriter) visit each playlist twice.
func checkDistinctPlaylistRoots(foldersRoot, myListsRoot string) checkResult {
	if util.PathsEqual(foldersRoot, myListsRoot, true) {
		return checkResult{
			name:  "Playlist root configuration",
			error: true,
			message: fmt.Sprintf("Folders root and MyLists root are both %s; they must be separate directories", foldersRoot),
		}
	}
	return checkResult{name: "Playlist root configuration", message: "Folders root and MyLists root are distinct"}
}

func checkDiskSpace(path, label string) checkResult {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return checkResult{name: fmt.Sprintf("Disk space (%s)", label), warning: true, message: fmt.Sprintf("cannot determine disk space: %v", err)}
	}

	availBytes := stat.Bavail * uint64(stat.Bsize)
	totalBytes := stat.Blocks * uint64(stat.Bsize)
	usedBytes := totalBytes - (stat.Bfree * uint64(stat.Bsize))

	availGB := float64(availBytes) / (1024 * 1024 * 1024)
	usedPercent := 0.0
	if totalBytes > 0 {
		usedPercent = float64(usedBytes) / float64(totalBytes) * 100
	}

	warning := false
	suffix := ""
	if availGB < 1 {
		warning = true
		suffix = " (low space!)"
	} else if usedPercent > 90 {
		warning = true
		suffix = " (>90% used)"
	}

	return checkResult{
		name:    fmt.Sprintf("Disk space (%s)", label),
		warning: warning,
		message: fmt.Sprintf("%.1f GB available%s", availGB, suffix),
	}
}
