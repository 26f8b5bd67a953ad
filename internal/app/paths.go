package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Paths holds all resolved filesystem paths for the .brkit/ workspace directory.
// All fields are pre-computed strings.
type Paths struct {
	Root string // .brkit/
	DB   string // .brkit/brkit.db

	LogDir string // .brkit/log/
	Log    string // .brkit/log/brkit.log

	TmpDir string // .brkit/tmp/ (scripts, result files, decompile output)
	BinDir string // .brkit/bin/ (workspace-local engine and helper)
}

// NewPaths constructs all resolved paths from a workspace root directory.
func NewPaths(workspaceRoot string) *Paths {
	root := filepath.Join(workspaceRoot, ".brkit")
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "brkit.db"),

		LogDir: filepath.Join(root, "log"),
		Log:    filepath.Join(root, "log", "brkit.log"),

		TmpDir: filepath.Join(root, "tmp"),
		BinDir: filepath.Join(root, "bin"),
	}
}

// EnsureDirs creates all subdirectories under .brkit/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.TmpDir, p.BinDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// ResultPrefix names every per-file search result file.
const ResultPrefix = "searchResult_"

// ScriptPath is the search script for one run.
func (p *Paths) ScriptPath(token string) string {
	return filepath.Join(p.TmpDir, "search_"+token+".prc")
}

// ResultPath is the result file of the i-th searched file of one run. Paths
// are unique per run token and file index.
func (p *Paths) ResultPath(token string, i int) string {
	return filepath.Join(p.TmpDir, ResultPrefix+token+"_"+strconv.Itoa(i)+".txt")
}

// DecompileScriptPath and DecompileOutputPath name one decompile job's files.
func (p *Paths) DecompileScriptPath(token string) string {
	return filepath.Join(p.TmpDir, "decompile_"+token+".prc")
}

func (p *Paths) DecompileOutputPath(token, sourceExt string) string {
	return filepath.Join(p.TmpDir, "decompile_"+token+sourceExt)
}

// RemoveStaleResults deletes every result file left by earlier runs.
// Returns the number of files removed. Removal errors are ignored; a file
// that cannot be deleted is overwritten or ignored by the next run anyway.
func (p *Paths) RemoveStaleResults() int {
	entries, err := os.ReadDir(p.TmpDir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), ResultPrefix) {
			continue
		}
		if os.Remove(filepath.Join(p.TmpDir, e.Name())) == nil {
			n++
		}
	}
	return n
}

// CleanTmp removes everything under the tmp directory.
// Called by "brkit clean"; errors are ignored.
func (p *Paths) CleanTmp() {
	entries, err := os.ReadDir(p.TmpDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		os.RemoveAll(filepath.Join(p.TmpDir, e.Name()))
	}
}
