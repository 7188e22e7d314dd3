package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// importsOf returns the import paths of every non-test Go file in dir.
func importsOf(t *testing.T, dir string) map[string][]string {
	t.Helper()

	fset := token.NewFileSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read directory %s: %v", dir, err)
	}

	result := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}
		for _, imp := range f.Imports {
			result[entry.Name()] = append(result[entry.Name()], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return result
}

// TestCoreImportsOnly verifies pkg/core only imports allowed packages.
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
func TestCoreImportsOnly(t *testing.T) {
	allowedExternal := map[string]bool{
		"github.com/leapstack-labs/sqldoclint/pkg/token": true,
	}

	for file, imports := range importsOf(t, ".") {
		for _, importPath := range imports {
			// Stdlib paths have no dot in the first element
			if !strings.Contains(importPath, ".") {
				continue
			}
			if !allowedExternal[importPath] {
				t.Errorf("%s imports forbidden package: %s", file, importPath)
			}
		}
	}
}

// TestPublicPackagesDoNotImportInternal verifies nothing under pkg/ reaches
// into internal/. The public packages must stay usable as a library.
func TestPublicPackagesDoNotImportInternal(t *testing.T) {
	root := ".."
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || strings.HasPrefix(d.Name(), "testdata") {
			return nil
		}
		for file, imports := range importsOf(t, path) {
			for _, importPath := range imports {
				if strings.HasPrefix(importPath, "github.com/leapstack-labs/sqldoclint/internal/") {
					t.Errorf("%s imports internal package: %s (pkg/ must not import internal/)",
						filepath.Join(path, file), importPath)
				}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
}
