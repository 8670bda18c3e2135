package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/dataqc-cli/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ChartType != "bar" {
		t.Errorf("chart_type = %q, want bar", c.ChartType)
	}
	if c.ChartWidth != 1000 || c.ChartHeight != 500 {
		t.Errorf("chart size = %dx%d, want 1000x500", c.ChartWidth, c.ChartHeight)
	}
	if c.ExportSheet != "Sheet1" {
		t.Errorf("export_sheet = %q", c.ExportSheet)
	}
	if len(c.NAValues) != len(config.DefaultNAValues) {
		t.Errorf("na_values = %v", c.NAValues)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.ChartType = "scatter"
	c.PreviewRows = 3
	c.NAValues = []string{"?"}
	if err := config.Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ChartType != "scatter" || got.PreviewRows != 3 {
		t.Fatalf("unexpected reload: %+v", got)
	}
	if len(got.NAValues) != 1 || got.NAValues[0] != "?" {
		t.Fatalf("na_values = %v", got.NAValues)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATAQC_CHART_TYPE", "line")

	c, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ChartType != "line" {
		t.Fatalf("chart_type = %q, want line from env", c.ChartType)
	}
}
