package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultStateDir = "~/.azoni"

// ExpandHomePath rewrites a leading ~ or ~/ to the current user's home
// directory. Paths without the prefix are returned unchanged.
func ExpandHomePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}

func ResolveStateDir(raw string) string {
	dir := strings.TrimSpace(raw)
	if dir == "" {
		dir = defaultStateDir
	}
	return filepath.Clean(ExpandHomePath(dir))
}

func ResolveStateFile(stateDir, filename string) string {
	return filepath.Join(ResolveStateDir(stateDir), filename)
}
