// Package scenes discovers scene maps in a data directory.
package scenes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry represents a discoverable scene in the scenes directory
type Entry struct {
	Name string // Display name (file name without extension)
	Path string // Path to the scene JSON file
}

// Scan lists the scene files in dir. Hidden files and non-JSON files are
// skipped; entries are sorted by name.
func Scan(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenes directory: %w", err)
	}

	var found []Entry
	for _, entry := range entries {
		// Skip directories
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}

		found = append(found, Entry{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// Resolve turns a scene argument into a file path. Anything that looks like a
// path is returned unchanged; a bare name is looked up in dir.
func Resolve(dir, scene string) (string, error) {
	if strings.ContainsRune(scene, filepath.Separator) || strings.Contains(scene, "/") || filepath.Ext(scene) != "" {
		return scene, nil
	}

	entries, err := Scan(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Name == scene {
			return e.Path, nil
		}
	}
	return "", fmt.Errorf("scene %q not found in %s", scene, dir)
}
