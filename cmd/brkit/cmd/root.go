package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/corey/brkit/internal/app"
)

var (
	rootFlag string
	verbose  bool

	// logger is replaced in PersistentPreRunE; commands never see nil.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "brkit",
	Short: "brkit: search and navigate BR programs",
	Long: `Searches compiled BR programs with the BR engine and opens matches in their
source twin, decompiling it first when it does not exist yet.

Configuration is read from brkit.yaml (or .brkit/config.yaml) in the workspace root.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initLogger,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// workspaceRoot returns --root, or the working directory.
func workspaceRoot() (string, error) {
	if rootFlag != "" {
		return filepath.Abs(rootFlag)
	}
	return os.Getwd()
}

// initLogger writes JSON lines to .brkit/log/brkit.log. --verbose lowers the
// level to debug and mirrors the log to stderr.
func initLogger(cmd *cobra.Command, args []string) error {
	root, err := workspaceRoot()
	if err != nil {
		return err
	}
	paths := app.NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create %s: %w", paths.Root, err)
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{paths.Log}
	config.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		config.OutputPaths = append(config.OutputPaths, "stderr")
	}
	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l.With(zap.String("cmd", cmd.Name()))
	return nil
}

// newSession opens the workspace session. Tests replace it.
var newSession = func(cmd *cobra.Command) (*app.Session, error) {
	root, err := workspaceRoot()
	if err != nil {
		return nil, err
	}
	return app.New(app.Config{
		WorkspaceRoot: root,
		Logger:        logger,
		Stdout:        cmd.OutOrStdout(),
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlag, "root", "", "Workspace root (default: current directory)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging, mirrored to stderr")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(decompileCmd)
	rootCmd.AddCommand(extCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cleanCmd)
}
