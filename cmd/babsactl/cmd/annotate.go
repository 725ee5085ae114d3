package cmd

import (
	"github.com/spf13/cobra"
)

func newAnnotateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "annotate FILE",
		Short: "Add an aspect/sentiment annotation to a row and save",
		Long: `Add an aspect/sentiment annotation to one data row and write the file
back in place. Rows are numbered from 1, not counting the header row.

Annotations already stored in the derived columns are kept unless --keep=false
is given, in which case every row is rewritten from this run only.

Examples:
  babsactl annotate reviews.csv --row 3 --aspect battery --sentiment Negative`,
		Args: cobra.ExactArgs(1),
		RunE: runAnnotate,
	}
	c.Flags().Int("row", 0, "Data row number (1-based)")
	c.Flags().String("aspect", "", "Aspect text")
	c.Flags().String("sentiment", "", "Sentiment label")
	c.Flags().Bool("keep", true, "Keep annotations already stored in the file")
	_ = c.MarkFlagRequired("row")
	_ = c.MarkFlagRequired("aspect")
	_ = c.MarkFlagRequired("sentiment")
	return c
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	idx, err := rowIndex(cmd)
	if err != nil {
		return err
	}
	aspect, _ := cmd.Flags().GetString("aspect")
	sentiment, _ := cmd.Flags().GetString("sentiment")
	keep, _ := cmd.Flags().GetBool("keep")

	s, err := loadSession(cmd.Context(), cmd, args[0], keep)
	if err != nil {
		return err
	}
	if _, err := s.AddAnnotation(idx, aspect, sentiment); err != nil {
		return err
	}
	cmd.Println(s.Status())

	if err := s.Save(cmd.Context()); err != nil {
		return err
	}
	cmd.Println(s.Status())
	return nil
}
