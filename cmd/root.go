package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataqc-cli/internal/config"
	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
	"github.com/KaramelBytes/dataqc-cli/internal/export"
	"github.com/KaramelBytes/dataqc-cli/internal/session"
	"github.com/KaramelBytes/dataqc-cli/internal/viz"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Load flags (override config if set)
	flagDelimiter  string
	flagNA         []string
	flagSheetName  string
	flagSheetIndex int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "dataqc",
	Short: "dataqc: check, clean and chart tabular data",
	Long: `dataqc loads a CSV, TSV or XLSX dataset, reports missing values, duplicate rows and
type inconsistencies as a weighted quality score, fills missing values, charts the
missing-value distribution, and exports the cleaned data to a spreadsheet.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataqc/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',', ';', '|', or 'tab' (default: from extension)")
	rootCmd.PersistentFlags().StringSliceVar(&flagNA, "na", nil, "cell values treated as missing besides empty cells (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to read (default: first sheet)")
	rootCmd.PersistentFlags().IntVar(&flagSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (ignored if --sheet-name is set)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		warnf("failed to load config: %v", err)
		return
	}
	cfg = c
	debugf("config loaded (chart %s %dx%d, na %v)", cfg.ChartType, cfg.ChartWidth, cfg.ChartHeight, cfg.NAValues)
}

// current returns the loaded config, or defaults when loading failed.
func current() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		NAValues:     append([]string(nil), cfgpkg.DefaultNAValues...),
		SheetIndex:   1,
		ChartType:    "bar",
		ChartWidth:   1000,
		ChartHeight:  500,
		PreviewRows:  10,
		ReportFormat: "md",
		ExportSheet:  "Sheet1",
	}
}

func debugf(format string, args ...any) {
	if debug {
		fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "⚠ Warning: "+format+"\n", args...)
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab", "\\t":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s (use ',', ';', '|' or 'tab')", s)
	}
}

// loadOptions merges config and flags into dataset load options.
func loadOptions(cmd *cobra.Command) (dataset.Options, error) {
	c := current()
	opt := dataset.DefaultOptions()
	if len(c.NAValues) > 0 {
		opt.NAValues = c.NAValues
	}
	opt.SheetName = c.SheetName
	opt.SheetIndex = c.SheetIndex

	delim := c.Delimiter
	f := cmd.Flags()
	if f.Changed("delimiter") {
		delim = flagDelimiter
	}
	d, err := parseDelimiter(delim)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	if f.Changed("na") {
		opt.NAValues = flagNA
	}
	if f.Changed("sheet-name") {
		opt.SheetName = flagSheetName
	}
	if f.Changed("sheet-index") {
		if flagSheetIndex <= 0 {
			return opt, fmt.Errorf("--sheet-index must be >= 1")
		}
		opt.SheetIndex = flagSheetIndex
		if !f.Changed("sheet-name") {
			opt.SheetName = ""
		}
	}
	return opt, nil
}

// sessionOptions builds session settings from config and flags.
func sessionOptions(cmd *cobra.Command) (session.Options, error) {
	c := current()
	load, err := loadOptions(cmd)
	if err != nil {
		return session.Options{}, err
	}
	exp := export.DefaultOptions()
	if c.ExportSheet != "" {
		exp.Sheet = c.ExportSheet
	}
	if load.Delimiter != 0 {
		exp.Delimiter = load.Delimiter
	}
	return session.Options{
		Load:   load,
		Export: exp,
		Chart:  viz.Options{Width: c.ChartWidth, Height: c.ChartHeight},
	}, nil
}

// openSession starts a session and loads path into it, reporting load warnings.
func openSession(cmd *cobra.Command, path string) (*session.Session, error) {
	opts, err := sessionOptions(cmd)
	if err != nil {
		return nil, err
	}
	return openSessionWith(opts, path)
}

func openSessionWith(opts session.Options, path string) (*session.Session, error) {
	s := session.New(opts)
	debugf("session %s", s.ID)
	ds, err := s.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range ds.Warnings {
		warnf("%s", w)
	}
	debugf("loaded %s: %d rows, %d columns (%s)", ds.Name(), ds.Rows(), ds.Cols(), strings.Join(ds.Columns(), ", "))
	return s, nil
}
