package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataqc-cli/internal/quality"
	"github.com/KaramelBytes/dataqc-cli/internal/utils"
)

var (
	scoreReport string
	scoreOutput string
)

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Compute the overall quality score",
	Long: `Compute missing-value, duplicate-row and type-issue percentages and combine them
into the overall quality score:

  score = 100 - (0.4*missing + 0.3*duplicates + 0.3*type issues)

With --report, per-column profiles are included as markdown or JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(scoreReport))
		if format == "" && scoreOutput != "" {
			format = current().ReportFormat
		}
		switch format {
		case "", "md", "json":
		default:
			return fmt.Errorf("unsupported --report: %s (use md|json)", scoreReport)
		}

		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		var out string
		if format == "" {
			m, err := s.Metrics()
			if err != nil {
				return err
			}
			out = scoreText(m)
		} else {
			rep, err := s.Report()
			if err != nil {
				return err
			}
			if format == "json" {
				b, err := utils.PrettyJSON(rep)
				if err != nil {
					return err
				}
				out = string(b)
			} else {
				out = rep.Markdown()
			}
		}

		if scoreOutput == "" {
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		}
		if err := utils.EnsureParentDir(scoreOutput); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := utils.SafeWriteFile(scoreOutput, []byte(out)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", scoreOutput)
		return nil
	},
}

func scoreText(m *quality.Metrics) string {
	var b strings.Builder
	b.WriteString(quality.CleanlinessText(m.MissingPct, m.DuplicatePct))
	fmt.Fprintf(&b, "\nData Type Issues Percentage: %.2f%%\n", m.TypeIssuePct)
	b.WriteString(quality.ScoreText(m.Score))
	return b.String()
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreReport, "report", "", "include column profiles: md|json")
	scoreCmd.Flags().StringVarP(&scoreOutput, "output", "o", "", "write the report to a file instead of stdout")
}
