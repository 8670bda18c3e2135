package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
)

// resetFlags clears values and Changed state that persist across invocations.
func resetFlags() {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	cfg = nil
}

func execCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, "", args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// setup isolates HOME and writes a small dataset with two missing cells.
func setup(t *testing.T) (dir, csvPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	csvPath = filepath.Join(dir, "ab.csv")
	if err := os.WriteFile(csvPath, []byte("A,B\n1,x\n,y\n3,\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return dir, csvPath
}

func TestCLI_CheckAndScore(t *testing.T) {
	_, p := setup(t)

	out := runCmd(t, "check", p)
	if !strings.Contains(out, "Missing Values Percentage: 33.33%") || !strings.Contains(out, "Duplicate Rows Percentage: 0.00%") {
		t.Fatalf("unexpected check output:\n%s", out)
	}

	out = runCmd(t, "score", p)
	if !strings.Contains(out, "Overall Quality Score: 86.67%") {
		t.Fatalf("unexpected score output:\n%s", out)
	}
}

func TestCLI_ScoreReportJSONToFile(t *testing.T) {
	dir, p := setup(t)
	outPath := filepath.Join(dir, "reports", "q.json")

	out := runCmd(t, "score", p, "--report", "json", "-o", outPath)
	if !strings.Contains(out, "✓ Wrote report") {
		t.Fatalf("missing confirmation: %s", out)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep struct {
		Metrics struct {
			Score float64 `json:"overall_score"`
		} `json:"metrics"`
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
	}
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(rep.Columns) != 2 || rep.Metrics.Score < 86.6 || rep.Metrics.Score > 86.7 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	if _, err := execCmd(t, "", "score", p, "--report", "html"); err == nil {
		t.Fatalf("expected error for unsupported report format")
	}
}

func TestCLI_ImputeWithFillFlags(t *testing.T) {
	dir, p := setup(t)
	outPath := filepath.Join(dir, "clean.xlsx")

	out := runCmd(t, "impute", p, "--fill", "A=2", "--fill", "B=z", "-o", outPath)
	if !strings.Contains(out, "Missing Values Percentage: 0.00%") {
		t.Fatalf("expected no missing values after fill:\n%s", out)
	}
	ds, err := dataset.Load(outPath, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load export: %v", err)
	}
	if ds.MissingTotal() != 0 || ds.Value(1, 0) != "2" || ds.Value(2, 1) != "z" {
		t.Fatalf("unexpected exported data: %v", ds.Records())
	}
}

func TestCLI_ImputeInteractiveInvalidNumeric(t *testing.T) {
	_, p := setup(t)

	out, err := execCmd(t, "abc\nz\n", "impute", p)
	if err != nil {
		t.Fatalf("impute failed: %v", err)
	}
	if !strings.Contains(out, "Replacement for 'A'") || !strings.Contains(out, "Replacement for 'B'") {
		t.Fatalf("expected prompts for both columns:\n%s", out)
	}
	if !strings.Contains(out, "Filled 1 missing cells in 'B'") {
		t.Fatalf("text column should still be filled:\n%s", out)
	}
	// one numeric cell remains missing: 1/6
	if !strings.Contains(out, "Missing Values Percentage: 16.67%") {
		t.Fatalf("unexpected cleanliness after fill:\n%s", out)
	}
}

func TestCLI_ExportAndPlot(t *testing.T) {
	dir, p := setup(t)

	csvOut := filepath.Join(dir, "copy.csv")
	runCmd(t, "export", p, "-o", csvOut)
	a, err := dataset.Load(p, dataset.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := dataset.Load(csvOut, dataset.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !dataset.Equal(a, b) {
		t.Fatalf("export differs: %s", dataset.Diff(a, b))
	}

	svg := filepath.Join(dir, "missing.svg")
	runCmd(t, "plot", p, "-t", "line", "-o", svg)
	if fi, err := os.Stat(svg); err != nil || fi.Size() == 0 {
		t.Fatalf("chart not written: %v", err)
	}

	if _, err := execCmd(t, "", "plot", p, "-t", "scatter", "-o", filepath.Join(dir, "s.png")); err == nil {
		t.Fatalf("expected scatter to fail on a text column")
	}
	if _, err := execCmd(t, "", "plot", p, "-t", "pie"); err == nil {
		t.Fatalf("expected unknown chart type to fail")
	}
}

func TestCLI_SessionREPL(t *testing.T) {
	dir, p := setup(t)
	xlsx := filepath.Join(dir, "out.xlsx")
	png := filepath.Join(dir, "chart.png")

	script := strings.Join([]string{
		"score",
		"load " + filepath.Join(dir, "nope.csv"),
		"load " + p,
		"cleanliness",
		"replace",
		"5",
		"w",
		"score",
		"chart line",
		"plot " + png,
		"save " + xlsx,
		"show 2",
		"bogus",
		"quit",
	}, "\n") + "\n"

	out, err := execCmd(t, script, "session")
	if err != nil {
		t.Fatalf("session failed: %v", err)
	}
	for _, want := range []string{
		"no dataset loaded",
		"failed to load dataset",
		"Loaded ab.csv (3 rows, 2 columns)",
		"Missing Values Percentage: 33.33%",
		"Overall Quality Score: 100.00%",
		"Chart type set to line",
		"Saved " + xlsx,
		"unknown command",
		"Bye",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("session output missing %q:\n%s", want, out)
		}
	}
	for _, f := range []string{xlsx, png} {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("expected %s: %v", f, err)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	setup(t)

	runCmd(t, "config", "set", "chart_type", "SCATTER")
	runCmd(t, "config", "set", "na_values", "?, -")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "chart_type: scatter") || !strings.Contains(out, "na_values: ?, -") {
		t.Fatalf("config not persisted:\n%s", out)
	}
	if _, err := execCmd(t, "", "config", "set", "chart_width", "wide"); err == nil {
		t.Fatalf("expected invalid int to fail")
	}
	if _, err := execCmd(t, "", "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestCLI_CustomNAFlag(t *testing.T) {
	dir, _ := setup(t)
	p := filepath.Join(dir, "q.csv")
	if err := os.WriteFile(p, []byte("a,b\n1,?\n2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := runCmd(t, "check", p, "--na", "?")
	if !strings.Contains(out, "Missing Values Percentage: 25.00%") {
		t.Fatalf("custom NA marker not applied:\n%s", out)
	}
}

func TestCLI_SessionPathsWithSpaces(t *testing.T) {
	dir, p := setup(t)
	spaced := filepath.Join(dir, "my data.csv")
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(spaced, b, 0o644); err != nil {
		t.Fatal(err)
	}
	xlsx := filepath.Join(dir, "clean out.xlsx")
	svg := filepath.Join(dir, "my chart.svg")

	script := strings.Join([]string{
		"save " + xlsx,
		`plot "` + svg + `"`,
		"load   " + spaced + "  ",
		"quit",
	}, "\n") + "\n"
	out, err := execCmd(t, script, "session", spaced)
	if err != nil {
		t.Fatalf("session failed: %v", err)
	}
	if strings.Count(out, "Loaded my data.csv (3 rows, 2 columns)") != 2 {
		t.Errorf("expected two loads of the spaced path:\n%s", out)
	}
	if strings.Contains(out, "Error") {
		t.Errorf("unexpected error output:\n%s", out)
	}
	for _, f := range []string{xlsx, svg} {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("expected %s: %v", f, err)
		}
	}
}
