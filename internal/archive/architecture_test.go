package archive

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestOnlyArchivePackageImportsInfra ensures that only the top-level archive
// package wraps the infra-backed drivers. Other packages must depend on the
// archive.Store interface instead of importing the drivers directly.
func TestOnlyArchivePackageImportsInfra(t *testing.T) {
	infraPrefix := "github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/infra/archive"
	allowedPrefix := "github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/archive"

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "github.com/Ulrike-Hampacher/Badlayout-Chromax/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})

	for _, pkg := range pkgs {
		if strings.HasPrefix(pkg.PkgPath, allowedPrefix) {
			continue
		}
		if strings.HasPrefix(pkg.PkgPath, infraPrefix) {
			continue
		}
		for importPath := range pkg.Imports {
			if isInfraImport(importPath, infraPrefix) {
				pos := filepath.Join(pkg.PkgPath, "...")
				seen[pos+": "+importPath] = struct{}{}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden import of infra archive package: %s", v)
		}
		t.Fatalf("found %d forbidden imports of infra archive packages", len(violations))
	}
}

func isInfraImport(importPath, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}
