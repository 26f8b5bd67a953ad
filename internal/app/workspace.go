package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/corey/brkit/internal/domain/extmap"
	"github.com/corey/brkit/internal/ports"
)

// skipDirs lists directories never searched (matches the fsnotify watcher).
var skipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	".brkit":       true,
	".vscode":      true,
	".idea":        true,
	"node_modules": true,
}

// CollectFiles enumerates the compiled artifacts under roots. Files matching
// an exclude glob (doublestar syntax, relative to the root being walked) are
// skipped. The result is sorted by path and free of duplicates, so
// overlapping roots are harmless.
func CollectFiles(roots []string, tbl *extmap.Table, exclude []string) ([]ports.WorkspaceFile, error) {
	if len(roots) == 0 {
		return nil, ports.ErrNoWorkspace
	}
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}

	seen := make(map[string]bool)
	var files []ports.WorkspaceFile
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", ports.ErrNoWorkspace, root)
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip unreadable
			}
			if path == abs {
				return nil
			}
			rel, err := filepath.Rel(abs, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if skipDirs[d.Name()] || excluded(exclude, rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if seen[path] || excluded(exclude, rel) {
				return nil
			}
			if tbl.Classify(path) != ports.KindCompiled {
				return nil
			}
			seen[path] = true
			files = append(files, ports.WorkspaceFile{
				Path: path,
				Ext:  extmap.Normalize(filepath.Ext(path)),
				Kind: ports.KindCompiled,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// TargetFiles classifies explicitly named files. Compiled artifacts are
// loaded by the engine; source files are searched through input redirection.
func TargetFiles(paths []string, tbl *extmap.Table) ([]ports.WorkspaceFile, error) {
	seen := make(map[string]bool)
	files := make([]ports.WorkspaceFile, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if seen[abs] {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("search target: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("search target %s is a directory", p)
		}
		kind := tbl.Classify(abs)
		if kind == ports.KindUnknown {
			return nil, fmt.Errorf("search target %s: extension %q is neither compiled nor source", p, filepath.Ext(abs))
		}
		seen[abs] = true
		files = append(files, ports.WorkspaceFile{Path: abs, Ext: extmap.Normalize(filepath.Ext(abs)), Kind: kind})
	}
	return files, nil
}

func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
