package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/brkit/internal/adapters/engine"
	"github.com/corey/brkit/internal/adapters/yamlconfig"
	"github.com/corey/brkit/internal/app"
	"github.com/corey/brkit/internal/domain/extmap"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the workspace root, config file, engine settings and extension table. Opens no database.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root, err := workspaceRoot()
	if err != nil {
		return err
	}
	src := yamlconfig.ForWorkspace(root)
	cfg, err := src.Load()
	if err != nil {
		return err
	}
	paths := app.NewPaths(root)
	out := cmd.OutOrStdout()

	file := src.Path()
	if file == "" {
		file = "(none, using defaults)"
	}
	engineStatus := fmt.Sprintf("%s✗ not found%s", colorYellow, colorReset)
	if engine.Available(cfg.Engine, paths.BinDir) {
		engineStatus = fmt.Sprintf("%s✓ found%s", colorGreen, colorReset)
	}
	if cfg.Engine.Executable == "" {
		engineStatus = fmt.Sprintf("%s✗ not configured%s", colorYellow, colorReset)
	}

	fmt.Fprintf(out, "%s⚡ brkit config%s\n", colorBold, colorReset)
	fmt.Fprintf(out, "  Root:       %s\n", root)
	fmt.Fprintf(out, "  Config:     %s\n", file)
	fmt.Fprintf(out, "  DB:         %s\n", paths.DB)
	fmt.Fprintf(out, "  Log:        %s\n", paths.Log)
	fmt.Fprintf(out, "  Engine:     %s %s\n", cfg.Engine.Executable, engineStatus)
	if cfg.Engine.WorkDir != "" {
		fmt.Fprintf(out, "  Workdir:    %s\n", cfg.Engine.WorkDir)
	}
	if cfg.Engine.Helper != "" {
		fmt.Fprintf(out, "  Helper:     %s (settle %s)\n", cfg.Engine.Helper, cfg.Engine.SettleDelay)
	}
	fmt.Fprintf(out, "  Attempts:   %d\n", cfg.Engine.Attempts)
	if cfg.Editor != "" {
		fmt.Fprintf(out, "  Editor:     %s\n", cfg.Editor)
	}
	if cfg.DecompileStyle != "" {
		fmt.Fprintf(out, "  Style:      %s\n", cfg.DecompileStyle)
	}

	tbl, err := extmap.TableFor(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  Extensions:")
	for _, p := range tbl.Pairs() {
		fmt.Fprintf(out, " %s→%s", p.Compiled, p.Source)
	}
	fmt.Fprintln(out)
	for _, e := range cfg.Exclude {
		fmt.Fprintf(out, "  Exclude:    %s\n", e)
	}
	return nil
}
