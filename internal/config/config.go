package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Cleaning
	Threshold     float64 `mapstructure:"threshold" yaml:"threshold"`
	RequiredField string  `mapstructure:"required_field" yaml:"required_field"`

	// Loading
	Delimiter string   `mapstructure:"delimiter" yaml:"delimiter"`
	Encoding  string   `mapstructure:"encoding" yaml:"encoding"`
	NAValues  []string `mapstructure:"na_values" yaml:"na_values"`
	Decimal   string   `mapstructure:"decimal" yaml:"decimal"`
	HeadRows  int      `mapstructure:"head_rows" yaml:"head_rows"`
	MaxRows   int      `mapstructure:"max_rows" yaml:"max_rows"`

	// Charts
	ChartDir      string   `mapstructure:"chart_dir" yaml:"chart_dir"`
	ChartKinds    []string `mapstructure:"chart_kinds" yaml:"chart_kinds"`
	Bins          int      `mapstructure:"bins" yaml:"bins"`
	GridCols      int      `mapstructure:"grid_cols" yaml:"grid_cols"`
	ChartWidthIn  float64  `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64  `mapstructure:"chart_height_in" yaml:"chart_height_in"`

	StudiesDir string `mapstructure:"studies_dir" yaml:"studies_dir"`

	// SQL export
	ExportDSN   string `mapstructure:"export_dsn" yaml:"export_dsn"`
	ExportTable string `mapstructure:"export_table" yaml:"export_table"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabsift"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabsift/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
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
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABSIFT")
	v.AutomaticEnv()

	v.SetDefault("threshold", 0.9)
	v.SetDefault("required_field", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("na_values", []string{})
	v.SetDefault("decimal", ".")
	v.SetDefault("head_rows", 5)
	v.SetDefault("max_rows", 0)
	v.SetDefault("chart_dir", "charts")
	v.SetDefault("chart_kinds", []string{"hist", "box"})
	v.SetDefault("bins", 20)
	v.SetDefault("grid_cols", 4)
	v.SetDefault("chart_width_in", 4.0)
	v.SetDefault("chart_height_in", 3.0)
	// empty resolves to ~/.tabsift/studies below
	v.SetDefault("studies_dir", "")
	v.SetDefault("export_dsn", "")
	v.SetDefault("export_table", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
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
	if c.StudiesDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.StudiesDir = filepath.Join(dir, "studies")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges.
func (c *Global) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be within [0,1], got %v", c.Threshold)
	}
	if c.HeadRows < 0 || c.MaxRows < 0 {
		return fmt.Errorf("head_rows and max_rows must not be negative")
	}
	if c.Bins < 0 || c.GridCols < 0 {
		return fmt.Errorf("bins and grid_cols must not be negative")
	}
	switch c.Delimiter {
	case "", ",", ";", "|", "\t", `\t`, "tab", "TAB":
	default:
		return fmt.Errorf("unsupported delimiter: %q (use ','|';'|'|'|'tab')", c.Delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(c.Decimal)) {
	case "", ".", "dot", ",", "comma":
	default:
		return fmt.Errorf("unsupported decimal separator: %q (use '.'|'comma')", c.Decimal)
	}
	return nil
}

// Keys lists the settable configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(c *Global, val string) error{
	"threshold": func(c *Global, val string) error {
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return err
		}
		c.Threshold = f
		return nil
	},
	"required_field":  func(c *Global, val string) error { c.RequiredField = val; return nil },
	"delimiter":       func(c *Global, val string) error { c.Delimiter = val; return nil },
	"encoding":        func(c *Global, val string) error { c.Encoding = strings.ToLower(val); return nil },
	"na_values":       func(c *Global, val string) error { c.NAValues = splitList(val); return nil },
	"decimal":         func(c *Global, val string) error { c.Decimal = val; return nil },
	"head_rows":       intSetter(func(c *Global) *int { return &c.HeadRows }),
	"max_rows":        intSetter(func(c *Global) *int { return &c.MaxRows }),
	"chart_dir":       func(c *Global, val string) error { c.ChartDir = val; return nil },
	"chart_kinds":     func(c *Global, val string) error { c.ChartKinds = splitList(val); return nil },
	"bins":            intSetter(func(c *Global) *int { return &c.Bins }),
	"grid_cols":       intSetter(func(c *Global) *int { return &c.GridCols }),
	"chart_width_in":  floatSetter(func(c *Global) *float64 { return &c.ChartWidthIn }),
	"chart_height_in": floatSetter(func(c *Global) *float64 { return &c.ChartHeightIn }),
	"studies_dir":     func(c *Global, val string) error { c.StudiesDir = val; return nil },
	"export_dsn":      func(c *Global, val string) error { c.ExportDSN = val; return nil },
	"export_table":    func(c *Global, val string) error { c.ExportTable = val; return nil },
}

func intSetter(field func(*Global) *int) func(*Global, string) error {
	return func(c *Global, val string) error {
		i, err := cast.ToIntE(val)
		if err != nil {
			return err
		}
		*field(c) = i
		return nil
	}
}

func floatSetter(field func(*Global) *float64) func(*Global, string) error {
	return func(c *Global, val string) error {
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func splitList(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Set converts val for key and stores it in c. The result is validated.
func (c *Global) Set(key, val string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown key: %s (known: %s)", key, strings.Join(Keys(), ", "))
	}
	next := *c
	if err := set(&next, strings.TrimSpace(val)); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
