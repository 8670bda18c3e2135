package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
	"github.com/KaramelBytes/dataqc-cli/internal/impute"
	"github.com/KaramelBytes/dataqc-cli/internal/quality"
)

var (
	impOutput string
	impFill   []string
)

var imputeCmd = &cobra.Command{
	Use:   "impute <file>",
	Short: "Replace missing values column by column",
	Long: `Replace missing values with one value per column. Without --fill, you are prompted
for each column that has missing cells; press enter to leave a column as it is.
Numeric columns require a number. The result is written with -o (xlsx, csv or tsv).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		ds, err := s.Dataset()
		if err != nil {
			return err
		}
		var lookup impute.Lookup
		if len(impFill) > 0 {
			values, err := impute.ParseAssignments(impFill)
			if err != nil {
				return err
			}
			for col := range values {
				if ds.Index(col) < 0 {
					warnf("column '%s' not found; ignored", col)
				}
			}
			lookup = impute.MapLookup(values)
		} else {
			lookup = promptLookup(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), ds)
		}
		res, err := s.ReplaceMissing(lookup)
		if err != nil {
			return err
		}
		printFillResult(cmd.OutOrStdout(), res)

		missing, dup, err := s.Cleanliness()
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), quality.CleanlinessText(missing, dup))
		}
		if impOutput == "" {
			return nil
		}
		if err := s.Export(impOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s\n", impOutput)
		return nil
	},
}

// promptLookup asks for one replacement per column on w and reads answers
// from r. An empty line or end of input skips the column.
func promptLookup(r *bufio.Reader, w io.Writer, ds *dataset.Dataset) impute.Lookup {
	counts := ds.MissingCounts()
	return func(column string) (string, bool) {
		j := ds.Index(column)
		kind, n := dataset.KindText, 0
		if j >= 0 {
			kind, n = ds.Kind(j), counts[j]
		}
		fmt.Fprintf(w, "Replacement for '%s' (%s, %d missing) [enter to skip]: ", column, kind, n)
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(w)
			return "", false
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			return "", false
		}
		return line, true
	}
}

func printFillResult(w io.Writer, res *impute.Result) {
	for _, c := range res.Columns {
		switch c.Outcome {
		case impute.Filled:
			fmt.Fprintf(w, "✓ Filled %d missing cells in '%s' with %q\n", c.Cells, c.Column, c.Value)
		case impute.Skipped:
			debugf("skipped column %s", c.Column)
		default:
			warnf("%v", c.Err)
		}
	}
	if len(res.Filled()) == 0 {
		fmt.Fprintln(w, "No columns were changed")
	}
}

func init() {
	rootCmd.AddCommand(imputeCmd)
	imputeCmd.Flags().StringVarP(&impOutput, "output", "o", "", "write the cleaned dataset to this file (.xlsx, .csv or .tsv)")
	imputeCmd.Flags().StringArrayVar(&impFill, "fill", nil, "column=value replacement (repeatable); skips the interactive prompts")
}
