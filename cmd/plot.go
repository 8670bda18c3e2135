package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataqc-cli/internal/viz"
)

var (
	plotType   string
	plotOutput string
)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Chart missing values per column (bar, line) or the first two columns (scatter)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := plotType
		if name == "" {
			name = current().ChartType
		}
		kind, err := viz.ParseKind(name)
		if err != nil {
			return err
		}
		if _, err := viz.FormatFor(plotOutput); err != nil {
			return err
		}
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		s.SetChartKind(kind)
		if err := s.Plot(plotOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s chart to %s\n", kind, plotOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVarP(&plotType, "type", "t", "", "chart type: bar|line|scatter (default from config)")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "missing_values.png", "output image (.png or .svg)")
}
