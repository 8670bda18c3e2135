package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataqc-cli/internal/quality"
	"github.com/KaramelBytes/dataqc-cli/internal/session"
	"github.com/KaramelBytes/dataqc-cli/internal/viz"
)

var errExit = errors.New("exit requested")

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	headColor = color.New(color.FgCyan, color.Bold)
)

var sessionCmd = &cobra.Command{
	Use:   "session [file]",
	Short: "Interactive session: load, inspect, fill, chart and save a dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := sessionOptions(cmd)
		if err != nil {
			return err
		}
		kind, err := viz.ParseKind(current().ChartType)
		if err != nil {
			warnf("%v; using bar", err)
			kind = viz.Bar
		}
		s := session.New(opts)
		s.SetChartKind(kind)
		r := &repl{
			s:    s,
			in:   bufio.NewReader(cmd.InOrStdin()),
			out:  cmd.OutOrStdout(),
			rows: current().PreviewRows,
		}
		debugf("session %s started %s", s.ID, s.StartedAt.Format(time.RFC3339))
		if len(args) == 1 {
			r.exec("load " + args[0])
		}
		r.run()
		return nil
	},
}

type repl struct {
	s    *session.Session
	in   *bufio.Reader
	out  io.Writer
	rows int
}

func (r *repl) run() {
	headColor.Fprintln(r.out, "=== dataqc session === (type 'help' for commands)")
	for {
		fmt.Fprint(r.out, "dataqc> ")
		line, err := r.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if r.exec(line) {
				return
			}
		}
		if err != nil {
			fmt.Fprintln(r.out)
			return
		}
	}
}

// exec runs one command line and reports whether the loop should stop.
// Errors are printed; session state is left as it was.
func (r *repl) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	name, rest := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		name, rest = line[:i], strings.TrimSpace(line[i:])
	}
	err := r.dispatch(strings.ToLower(name), rest)
	switch {
	case err == nil:
		return false
	case errors.Is(err, errExit):
		okColor.Fprintln(r.out, "Bye")
		return true
	default:
		errColor.Fprintf(r.out, "✗ Error: %v\n", err)
		return false
	}
}

// dispatch runs one command. File arguments take the rest of the line, so
// paths may contain spaces; surrounding quotes are dropped.
func (r *repl) dispatch(name, rest string) error {
	args := strings.Fields(rest)
	path := unquote(rest)
	switch name {
	case "load", "open":
		if path == "" {
			return fmt.Errorf("usage: load <file>")
		}
		ds, err := r.s.Load(path)
		if err != nil {
			return err
		}
		for _, w := range ds.Warnings {
			warnColor.Fprintf(r.out, "⚠ Warning: %s\n", w)
		}
		okColor.Fprintf(r.out, "✓ Loaded %s (%d rows, %d columns)\n", ds.Name(), ds.Rows(), ds.Cols())
		return nil
	case "cleanliness", "check":
		missing, dup, err := r.s.Cleanliness()
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, quality.CleanlinessText(missing, dup))
		return nil
	case "score":
		m, err := r.s.Metrics()
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, scoreText(m))
		return nil
	case "report":
		rep, err := r.s.Report()
		if err != nil {
			return err
		}
		fmt.Fprint(r.out, rep.Markdown())
		return nil
	case "replace", "impute":
		ds, err := r.s.Dataset()
		if err != nil {
			return err
		}
		res, err := r.s.ReplaceMissing(promptLookup(r.in, r.out, ds))
		if err != nil {
			return err
		}
		printFillResult(r.out, res)
		return nil
	case "save", "export":
		if path == "" {
			return fmt.Errorf("usage: save <file.xlsx>")
		}
		if err := r.s.Export(path); err != nil {
			return err
		}
		okColor.Fprintf(r.out, "✓ Saved %s\n", path)
		return nil
	case "chart":
		if len(args) == 0 {
			fmt.Fprintf(r.out, "Chart type: %s\n", r.s.ChartKind())
			return nil
		}
		k, err := viz.ParseKind(args[0])
		if err != nil {
			return err
		}
		r.s.SetChartKind(k)
		okColor.Fprintf(r.out, "✓ Chart type set to %s\n", k)
		return nil
	case "plot":
		if path == "" {
			path = "missing_values.png"
		}
		if err := r.s.Plot(path); err != nil {
			return err
		}
		okColor.Fprintf(r.out, "✓ Wrote %s chart to %s\n", r.s.ChartKind(), path)
		return nil
	case "show", "head":
		n := r.rows
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v <= 0 {
				return fmt.Errorf("invalid row count: %s", args[0])
			}
			n = v
		}
		return r.show(n)
	case "columns", "info":
		return r.columns()
	case "help", "?":
		r.help()
		return nil
	case "quit", "exit", "q":
		return errExit
	default:
		return fmt.Errorf("unknown command %q (type 'help')", name)
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func (r *repl) show(n int) error {
	ds, err := r.s.Dataset()
	if err != nil {
		return err
	}
	if n > ds.Rows() {
		n = ds.Rows()
	}
	table := tablewriter.NewWriter(r.out)
	table.SetHeader(append([]string{"#"}, ds.Columns()...))
	table.SetAutoFormatHeaders(false)
	for i := 0; i < n; i++ {
		row := ds.Row(i)
		for j := range row {
			if ds.IsMissing(i, j) {
				row[j] = "<missing>"
			}
		}
		table.Append(append([]string{strconv.Itoa(i + 1)}, row...))
	}
	table.Render()
	fmt.Fprintf(r.out, "%d of %d rows\n", n, ds.Rows())
	return nil
}

func (r *repl) columns() error {
	ds, err := r.s.Dataset()
	if err != nil {
		return err
	}
	counts := ds.MissingCounts()
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Column", "Kind", "Missing"})
	table.SetAutoFormatHeaders(false)
	for j, name := range ds.Columns() {
		table.Append([]string{name, string(ds.Kind(j)), strconv.Itoa(counts[j])})
	}
	table.Render()
	return nil
}

func (r *repl) help() {
	headColor.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  load <file>        load a CSV, TSV or XLSX dataset")
	fmt.Fprintln(r.out, "  cleanliness        missing-value and duplicate-row percentages")
	fmt.Fprintln(r.out, "  score              overall quality score")
	fmt.Fprintln(r.out, "  report             metrics plus per-column profiles")
	fmt.Fprintln(r.out, "  replace            fill missing values column by column")
	fmt.Fprintln(r.out, "  save <file>        export to .xlsx (or .csv/.tsv)")
	fmt.Fprintln(r.out, "  chart [kind]       show or set the chart type: bar, line, scatter")
	fmt.Fprintln(r.out, "  plot [file]        render the chart to .png or .svg")
	fmt.Fprintln(r.out, "  show [n]           preview the first n rows")
	fmt.Fprintln(r.out, "  columns            column kinds and missing counts")
	fmt.Fprintln(r.out, "  quit               leave the session")
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
