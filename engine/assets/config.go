package assets

import (
	"os"
	"path/filepath"
)

// FindConfig returns the first existing file called name in the working
// directory, then next to the executable. ok is false if neither has one.
func FindConfig(name string) (path string, ok bool) {
	dirs := []string{"."}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return findIn(dirs, name)
}

func findIn(dirs []string, name string) (string, bool) {
	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}
