package cmd

import (
	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "clear FILE",
		Short: "Remove all annotations from a row and save",
		Long: `Remove every annotation from one data row, leaving its derived cells
empty, and write the file back in place. Other rows keep their annotations.

Examples:
  babsactl clear reviews.csv --row 3`,
		Args: cobra.ExactArgs(1),
		RunE: runClear,
	}
	c.Flags().Int("row", 0, "Data row number (1-based)")
	_ = c.MarkFlagRequired("row")
	return c
}

func runClear(cmd *cobra.Command, args []string) error {
	idx, err := rowIndex(cmd)
	if err != nil {
		return err
	}

	s, err := loadSession(cmd.Context(), cmd, args[0], true)
	if err != nil {
		return err
	}
	if _, err := s.ClearRow(idx); err != nil {
		return err
	}
	cmd.Println(s.Status())

	if err := s.Save(cmd.Context()); err != nil {
		return err
	}
	cmd.Println(s.Status())
	return nil
}
