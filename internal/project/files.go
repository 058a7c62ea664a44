package project

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
)

// FileTree maps slash-separated paths relative to the project root to file
// contents.
type FileTree map[string]string

var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// ReadFiles snapshots every regular file under dir, skipping node_modules
// and .git.
func ReadFiles(dir string) (FileTree, error) {
	tree := FileTree{}
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != dir && skippedDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading project files in %s: %w", dir, err)
	}
	return tree, nil
}

// Clone returns a copy of t.
func (t FileTree) Clone() FileTree {
	return maps.Clone(t)
}
