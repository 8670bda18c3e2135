package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	expOutput string
	expSheet  string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Convert a dataset to xlsx (or csv/tsv)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if expOutput == "" {
			return fmt.Errorf("--output is required")
		}
		opts, err := sessionOptions(cmd)
		if err != nil {
			return err
		}
		if expSheet != "" {
			opts.Export.Sheet = expSheet
		}
		s, err := openSessionWith(opts, args[0])
		if err != nil {
			return err
		}
		if err := s.Export(expOutput); err != nil {
			return err
		}
		ds, _ := s.Dataset()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d rows to %s\n", ds.Rows(), expOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&expOutput, "output", "o", "", "output file (.xlsx, .csv or .tsv)")
	exportCmd.Flags().StringVar(&expSheet, "sheet", "", "worksheet name for xlsx output (default from config)")
}
