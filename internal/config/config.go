package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Loading
	Delimiter  string   `mapstructure:"delimiter" yaml:"delimiter"`
	NAValues   []string `mapstructure:"na_values" yaml:"na_values"`
	SheetName  string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int      `mapstructure:"sheet_index" yaml:"sheet_index"`

	// Charts
	ChartType   string `mapstructure:"chart_type" yaml:"chart_type"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`

	// Output
	PreviewRows  int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	ReportFormat string `mapstructure:"report_format" yaml:"report_format"`
	ExportSheet  string `mapstructure:"export_sheet" yaml:"export_sheet"`
}

// DefaultNAValues are the cell markers treated as missing besides the empty string.
var DefaultNAValues = []string{"NA", "NaN", "<nil>", "null"}

// Dir returns ~/.dataqc, the default config location.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dataqc"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataqc/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATAQC")
	v.AutomaticEnv()

	v.SetDefault("delimiter", "")
	v.SetDefault("na_values", DefaultNAValues)
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("chart_type", "bar")
	v.SetDefault("chart_width", 1000)
	v.SetDefault("chart_height", 500)
	v.SetDefault("preview_rows", 10)
	v.SetDefault("report_format", "md")
	v.SetDefault("export_sheet", "Sheet1")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.NAValues) == 0 {
		c.NAValues = append([]string(nil), DefaultNAValues...)
	}
	return &c, nil
}
