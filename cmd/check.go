package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataqc-cli/internal/quality"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Report missing-value and duplicate-row percentages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		missing, dup, err := s.Cleanliness()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), quality.CleanlinessText(missing, dup))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
