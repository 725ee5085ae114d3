package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show headers, row count and the text to annotate",
		Long: `Show the headers, row count and format of a data file, followed by
the text to annotate for the first rows.

Examples:
  babsactl inspect reviews.csv
  babsactl inspect reviews.xlsx --column review --limit 20`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
	c.Flags().String("column", "", "Annotation column (defaults to the first header)")
	c.Flags().Int("limit", 10, "Number of rows to show (0 for all)")
	return c
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context(), cmd, args[0], true)
	if err != nil {
		return err
	}

	if column, _ := cmd.Flags().GetString("column"); column != "" {
		if err := s.SelectColumn(column); err != nil {
			return err
		}
	}
	limit, _ := cmd.Flags().GetInt("limit")

	doc := s.Snapshot()
	cmd.Printf("File:        %s\n", doc.Path)
	cmd.Printf("Format:      %s\n", doc.Format)
	cmd.Printf("Fingerprint: %s\n", doc.Fingerprint)
	cmd.Printf("Headers:     %d\n", len(doc.Headers))
	for i, h := range doc.Headers {
		cmd.Printf("  %2d  %s\n", i+1, h)
	}
	cmd.Printf("Rows:        %d\n", len(doc.Rows))
	cmd.Printf("Annotations: %d\n", doc.AnnotationCount())
	cmd.Printf("Column:      %s\n", s.Column())

	if len(doc.Rows) == 0 {
		return nil
	}
	cmd.Println()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tTEXT\tASPECTS\tSENTIMENTS")
	for i, row := range doc.Rows {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, row.TextToAnnotate, row.JoinAspects(), row.JoinSentiments())
	}
	return tw.Flush()
}
