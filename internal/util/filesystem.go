package util

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
)

// IsSameFilesystem reports whether two paths resolve to the same device
// (st_dev), used by `vdjfix doctor` to flag a catalog placed on a
// different filesystem/mount than the library it indexes.
func IsSameFilesystem(path1, path2 string) (bool, error) {
	stat1, err := os.Stat(path1)
	if err != nil {
		return false, err
	}

	stat2, err := os.Stat(path2)
	if err != nil {
		return false, err
	}

	sysStat1, ok1 := stat1.Sys().(*syscall.Stat_t)
	sysStat2, ok2 := stat2.Sys().(*syscall.Stat_t)
	if !ok1 || !ok2 {
		// When the device ID can't be read, assume different filesystems;
		// doctor then reports the catalog as on a separate filesystem.
		return false, nil
	}

	return sysStat1.Dev == sysStat2.Dev, nil
}

// DetectFilesystemCaseSensitivity probes path by creating two files whose
// names differ only in case, used by `vdjfix doctor` to explain why
// rewriteAll's normalized path matching may or may not be needed on a
// given playlist root.
func DetectFilesystemCaseSensitivity(path string) (bool, error) {
	switch runtime.GOOS {
	case "windows":
		// NTFS/FAT32 are always case-insensitive.
		return false, nil
	case "darwin":
		// APFS can go either way; fall through to the probe.
	case "linux":
		// ext4/xfs/btrfs are case-sensitive, but an SMB/CIFS mount of a
		// VirtualDJ library often is not; fall through to the probe.
	}

	probeDir := filepath.Join(path, ".vdjfix-case-probe")
	os.RemoveAll(probeDir)
	if err := os.MkdirAll(probeDir, 0755); err != nil {
		return runtime.GOOS == "linux", nil
	}
	defer os.RemoveAll(probeDir)

	upper := filepath.Join(probeDir, "CaseProbe.tmp")
	lower := filepath.Join(probeDir, "caseprobe.tmp")

	f1, err := os.Create(upper)
	if err != nil {
		return runtime.GOOS == "linux", nil
	}
	f1.Close()

	if _, err := os.Stat(lower); err == nil {
		return false, nil
	}

	f2, err := os.Create(lower)
	if err != nil {
		// First file blocks the second: case-insensitive.
		return false, nil
	}
	f2.Close()

	return true, nil
}

// NormalizePath cleans path and, when caseSensitive is false, case-folds
// it for use as a map key. playlist.NormalizePath delegates to this with
// caseSensitive always false (§9: rewriteAll/removeFromAll match paths
// case-insensitively regardless of the underlying filesystem).
func NormalizePath(path string, caseSensitive bool) string {
	if caseSensitive {
		return filepath.Clean(path)
	}
	return strings.ToLower(filepath.Clean(path))
}

// PathsEqual compares two paths under the given case-sensitivity rule,
// used by `vdjfix doctor` to flag a misconfigured library where the
// playlist Folders root and MyLists root point at the same directory.
func PathsEqual(path1, path2 string, caseSensitive bool) bool {
	return NormalizePath(path1, caseSensitive) == NormalizePath(path2, caseSensitive)
}
