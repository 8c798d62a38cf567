// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// Sweep walks root and removes every directory whose name appears in
// dirNames (recursively, contents included) and every file whose name ends
// with one of the given suffixes. All other files are left untouched. It
// returns the number of entries removed.
func Sweep(root string, dirNames []string, suffixes []string) (int, error) {
	removed := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(dirNames, d.Name()) {
				if err := os.RemoveAll(path); err != nil {
					return err
				}
				removed++
				return filepath.SkipDir
			}
			return nil
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(d.Name(), suffix) {
				if err := os.Remove(path); err != nil {
					return err
				}
				removed++
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return removed, err
	}
	return removed, nil
}
