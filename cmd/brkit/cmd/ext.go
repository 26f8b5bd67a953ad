package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/brkit/internal/adapters/yamlconfig"
	"github.com/corey/brkit/internal/domain/extmap"
)

var extCmd = &cobra.Command{
	Use:   "ext [extension|file ...]",
	Short: "Show the compiled/source extension mapping",
	Long: `Without arguments, lists the extension table in effect. With arguments,
classifies each extension or file name and shows its counterpart.`,
	RunE: runExt,
}

func runExt(cmd *cobra.Command, args []string) error {
	root, err := workspaceRoot()
	if err != nil {
		return err
	}
	tbl, err := extmap.NewResolver(yamlconfig.ForWorkspace(root)).Snapshot()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, p := range tbl.Pairs() {
			fmt.Fprintf(out, "%-8s → %s\n", p.Compiled, p.Source)
		}
		return nil
	}
	for _, a := range args {
		ext := a
		if e := filepath.Ext(a); e != "" && e != a {
			ext = e
		}
		switch {
		case tbl.IsCompiled(ext):
			src, _ := tbl.SourceExtensionFor(ext)
			fmt.Fprintf(out, "%s\tcompiled\tsource %s\n", a, src)
		case tbl.IsSource(ext):
			c, _ := tbl.CompiledExtensionFor(ext)
			fmt.Fprintf(out, "%s\tsource\tcompiled %s\n", a, c)
		default:
			fmt.Fprintf(out, "%s\tunknown\n", a)
		}
	}
	return nil
}
