// Package cmd provides the commands of babsactl, a headless front end for
// inspecting and annotating data files.
package cmd

import (
	"context"
	"fmt"

	"babsa/app/annotation"
	"babsa/app/logging"

	"github.com/spf13/cobra"
)

// Version information - set via ldflags at build time in main.go.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCmd builds the command tree. A fresh tree is built for every run
// because cobra commands keep flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "babsactl",
		Short: "Inspect and annotate CSV/XLSX files from the command line",
		Long: `babsactl loads a CSV or XLSX file, adds or removes aspect/sentiment
annotations and writes them back to the AnnotatedAspect and
AnnotatedSentiment columns, the same way the desktop tool does.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")
			return logging.Setup(level, format)
		},
	}
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	root.SetVersionTemplate("babsactl {{.Version}}\n")

	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	root.AddCommand(newInspectCmd(), newAnnotateCmd(), newClearCmd())
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadSession loads path into a new session and, when keep is set, turns the
// derived columns already in the file back into annotations.
func loadSession(ctx context.Context, cmd *cobra.Command, path string, keep bool) (*annotation.Session, error) {
	s := annotation.NewSession()
	if err := s.Load(ctx, path); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Status(), err)
	}
	if keep {
		_, skipped, err := s.ImportDerivedColumns()
		if err != nil {
			return nil, err
		}
		if skipped > 0 {
			cmd.PrintErrf("warning: %d rows have derived values that could not be paired and will be overwritten\n", skipped)
		}
	}
	return s, nil
}

// rowIndex converts a 1-based row number from the command line.
func rowIndex(cmd *cobra.Command) (int, error) {
	row, err := cmd.Flags().GetInt("row")
	if err != nil {
		return 0, err
	}
	if row < 1 {
		return 0, fmt.Errorf("--row must be 1 or greater, got %d", row)
	}
	return row - 1, nil
}
