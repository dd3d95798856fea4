package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Convert ConvertConfig `mapstructure:"convert"`
	Apprise AppriseConfig `mapstructure:"apprise"`
}

type PathsConfig struct {
	// Input is the directory scanned for subtitle files.
	Input string `mapstructure:"input"`
	// Output is the directory converted files are written to. Created if absent.
	Output string `mapstructure:"output"`
}

type ConvertConfig struct {
	// IncludeSSA also matches legacy .ssa files, not just .ass.
	IncludeSSA bool `mapstructure:"include_ssa"`
}

type AppriseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"` // Apprise API URL
	Key     string `mapstructure:"key"`      // Apprise config key
	Tag     string `mapstructure:"tag"`      // Tag to filter services
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.input", "input")
	v.SetDefault("paths.output", "output")
	v.SetDefault("convert.include_ssa", true)
	v.SetDefault("apprise.enabled", false)
	// Empty defaults keep these keys visible to AutomaticEnv; viper only
	// consults the environment for keys it already knows about.
	v.SetDefault("apprise.base_url", "")
	v.SetDefault("apprise.key", "")
	v.SetDefault("apprise.tag", "all")
}

// Load reads configuration from an optional YAML file, the environment and
// bound flags. A missing config file is not an error; defaults apply.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ASS_TO_SRT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		if f := flags.Lookup("input"); f != nil {
			if err := v.BindPFlag("paths.input", f); err != nil {
				return nil, fmt.Errorf("bind input flag: %w", err)
			}
		}
		if f := flags.Lookup("output"); f != nil {
			if err := v.BindPFlag("paths.output", f); err != nil {
				return nil, fmt.Errorf("bind output flag: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isNotExist reports whether err is a plain missing-file error. Viper only
// returns ConfigFileNotFoundError in search-path mode, not with SetConfigFile.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Apprise.Enabled {
		if c.Apprise.BaseURL == "" {
			return fmt.Errorf("apprise.base_url is required when apprise is enabled")
		}
		if c.Apprise.Key == "" {
			return fmt.Errorf("apprise.key is required when apprise is enabled")
		}
	}
	return nil
}
