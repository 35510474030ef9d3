package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// FOURIER_PLOT_INPUT_PATH.
const EnvPrefix = "FOURIER_PLOT"

// Config represents the complete application configuration
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Plot    PlotConfig    `mapstructure:"plot"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// InputConfig describes the experiment results file
type InputConfig struct {
	Path    string `mapstructure:"path"`
	Lenient bool   `mapstructure:"lenient"`
}

// PlotConfig holds presentation settings of the error plot
type PlotConfig struct {
	Title        string  `mapstructure:"title"`
	XLabel       string  `mapstructure:"x_label"`
	YLabel       string  `mapstructure:"y_label"`
	LogX         bool    `mapstructure:"log_x"`
	LogY         bool    `mapstructure:"log_y"`
	Grid         bool    `mapstructure:"grid"`
	LegendTop    bool    `mapstructure:"legend_top"`
	LegendLeft   bool    `mapstructure:"legend_left"`
	LabelName    string  `mapstructure:"label_name"`
	LabelDivisor float64 `mapstructure:"label_divisor"`
	WidthInches  float64 `mapstructure:"width_inches"`
	HeightInches float64 `mapstructure:"height_inches"`
}

// OutputConfig lists the artifacts to write. Empty HeatmapPath and PDFPath
// disable those outputs.
type OutputConfig struct {
	PlotPath    string `mapstructure:"plot_path"`
	HeatmapPath string `mapstructure:"heatmap_path"`
	PDFPath     string `mapstructure:"pdf_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the optional file at path and from the
// environment. An empty path yields the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "fourier_data.txt")
	v.SetDefault("input.lenient", false)

	v.SetDefault("plot.title", "")
	v.SetDefault("plot.x_label", "Samples")
	v.SetDefault("plot.y_label", "Absolute Error ×10^10")
	v.SetDefault("plot.log_x", true)
	v.SetDefault("plot.log_y", true)
	v.SetDefault("plot.grid", true)
	// lower right
	v.SetDefault("plot.legend_top", false)
	v.SetDefault("plot.legend_left", false)
	v.SetDefault("plot.label_name", "a")
	v.SetDefault("plot.label_divisor", 100.0)
	v.SetDefault("plot.width_inches", 6.4)
	v.SetDefault("plot.height_inches", 4.8)

	v.SetDefault("output.plot_path", "fourier_error.png")
	v.SetDefault("output.heatmap_path", "")
	v.SetDefault("output.pdf_path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}

	if c.Output.PlotPath == "" {
		return fmt.Errorf("output.plot_path is required")
	}

	if c.Plot.LabelDivisor == 0 {
		return fmt.Errorf("plot.label_divisor must not be zero")
	}
	if c.Plot.WidthInches <= 0 || c.Plot.HeightInches <= 0 {
		return fmt.Errorf("plot.width_inches and plot.height_inches must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
