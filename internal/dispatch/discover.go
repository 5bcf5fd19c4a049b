package dispatch

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AndreyAkinshin/simtest/internal/errors"
)

// DefaultPattern selects simulation test scripts by base name.
const DefaultPattern = "*.test.ts"

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
}

// Discover walks dir recursively and returns the regular files whose base name
// matches any of patterns, sorted lexicographically. Hidden directories and
// node_modules are skipped. An empty pattern list selects DefaultPattern.
//
// A missing or unreadable dir is a configuration error.
func Discover(dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, errors.Configf("invalid test pattern %q: %v", p, err)
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Configf("test directory %q does not exist", dir)
		}
		return nil, errors.Configf("cannot access test directory %q: %v", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.Configf("test directory %q is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matchAny(patterns, d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Configf("failed to scan test directory %q: %v", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	return skipDirs[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
