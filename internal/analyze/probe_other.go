//go:build !windows

package analyze

// isReparsePoint is a Windows concept; os.ReadDir already reports symlinks
// as non-directories elsewhere.
func isReparsePoint(string) bool { return false }

func longPath(path string) string { return path }
