package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataqc-cli/internal/config"
	"github.com/KaramelBytes/dataqc-cli/internal/viz"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dataqc configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := current()
		w := cmd.OutOrStdout()
		delim := c.Delimiter
		if delim == "" {
			delim = "(from extension)"
		}
		fmt.Fprintf(w, "delimiter: %s\n", delim)
		fmt.Fprintf(w, "na_values: %s\n", strings.Join(c.NAValues, ", "))
		if c.SheetName != "" {
			fmt.Fprintf(w, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(w, "sheet_index: %d\n", c.SheetIndex)
		fmt.Fprintf(w, "chart_type: %s\n", c.ChartType)
		fmt.Fprintf(w, "chart_width: %d\n", c.ChartWidth)
		fmt.Fprintf(w, "chart_height: %d\n", c.ChartHeight)
		fmt.Fprintf(w, "preview_rows: %d\n", c.PreviewRows)
		fmt.Fprintf(w, "report_format: %s\n", c.ReportFormat)
		fmt.Fprintf(w, "export_sheet: %s\n", c.ExportSheet)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "na_values":
			var vals []string
			for _, v := range strings.Split(val, ",") {
				if v = strings.TrimSpace(v); v != "" {
					vals = append(vals, v)
				}
			}
			cfg.NAValues = vals
		case "sheet_name":
			cfg.SheetName = val
		case "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for sheet_index: %v", val)
			}
			cfg.SheetIndex = i
		case "chart_type":
			k, err := viz.ParseKind(val)
			if err != nil {
				return err
			}
			cfg.ChartType = k.String()
		case "chart_width", "chart_height", "preview_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "chart_width":
				cfg.ChartWidth = i
			case "chart_height":
				cfg.ChartHeight = i
			default:
				cfg.PreviewRows = i
			}
		case "report_format":
			switch strings.ToLower(val) {
			case "md", "markdown":
				cfg.ReportFormat = "md"
			case "json":
				cfg.ReportFormat = "json"
			default:
				return fmt.Errorf("invalid report_format: %s (use md or json)", val)
			}
		case "export_sheet":
			if strings.TrimSpace(val) == "" {
				return fmt.Errorf("export_sheet cannot be empty")
			}
			cfg.ExportSheet = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
