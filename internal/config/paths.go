package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// Location is a well-known directory offered for a quick scan.
type Location struct {
	Name string
	Path string
}

var (
	windowsVar = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)
	unixVar    = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// Expand resolves a leading ~, Windows %VAR% and Unix $VAR / ${VAR}
// references, then makes the path absolute. References to unset variables,
// and any other $, are left exactly as written.
func Expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = home + path[1:]
	}
	path = windowsVar.ReplaceAllStringFunc(path, func(m string) string {
		if v, ok := os.LookupEnv(m[1 : len(m)-1]); ok {
			return v
		}
		return m
	})
	path = unixVar.ReplaceAllStringFunc(path, func(m string) string {
		name := strings.Trim(m, "${}")
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return m
	})
	return filepath.Abs(path)
}

// DefaultLocations lists the user's common directories that exist on this
// machine, followed by extra paths (expanded). Duplicates are dropped.
func DefaultLocations(extra []string) []Location {
	var candidates []Location
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			Location{"Home", home},
			Location{"Desktop", filepath.Join(home, "Desktop")},
			Location{"Documents", filepath.Join(home, "Documents")},
			Location{"Downloads", filepath.Join(home, "Downloads")},
		)
		switch runtime.GOOS {
		case "darwin":
			candidates = append(candidates,
				Location{"Applications", "/Applications"},
				Location{"Library", filepath.Join(home, "Library")})
		case "windows":
			candidates = append(candidates,
				Location{"Program Files", programFiles()},
				Location{"AppData", localAppData()})
		default:
			candidates = append(candidates,
				Location{"Cache", filepath.Join(home, ".cache")},
				Location{"Local", filepath.Join(home, ".local")})
		}
	}
	for _, p := range extra {
		abs, err := Expand(p)
		if err != nil || abs == "" {
			continue
		}
		candidates = append(candidates, Location{filepath.Base(abs), abs})
	}

	seen := make(map[string]bool)
	var out []Location
	for _, loc := range candidates {
		if loc.Path == "" || seen[loc.Path] {
			continue
		}
		if info, err := os.Stat(loc.Path); err != nil || !info.IsDir() {
			continue
		}
		seen[loc.Path] = true
		out = append(out, loc)
	}
	return out
}

// localAppData returns the local app data directory.
func localAppData() string {
	return os.Getenv("LOCALAPPDATA")
}

// programFiles returns the Program Files directory.
func programFiles() string {
	if p := os.Getenv("ProgramFiles"); p != "" {
		return p
	}
	return `C:\Program Files`
}
