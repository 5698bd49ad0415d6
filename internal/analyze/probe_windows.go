//go:build windows

package analyze

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// isReparsePoint reports whether path carries FILE_ATTRIBUTE_REPARSE_POINT.
// Junctions and directory symlinks show up as directories in ReadDir, so the
// scanner checks this before descending.
func isReparsePoint(path string) bool {
	pathp, err := windows.UTF16PtrFromString(longPath(path))
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(pathp)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0
}

const maxPath = 260

// longPath returns path in extended-length form once it reaches MAX_PATH.
func longPath(path string) string {
	const prefix = `\\?\`
	if len(path) < maxPath || strings.HasPrefix(path, prefix) {
		return path
	}
	return prefix + filepath.Clean(path)
}
