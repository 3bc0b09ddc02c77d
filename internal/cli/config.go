package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the optional project-level configuration, read from
// .reqsmith.toml in the project directory and REQSMITH_* environment
// variables. Everything here has a flag or built-in default; the file
// only exists to pin project conventions.
type Config struct {
	// Manifest overrides the manifest filename (default requirements.txt).
	Manifest string `mapstructure:"manifest"`

	// PipCommand overrides the pip executable, e.g. "python3 -m pip".
	PipCommand string `mapstructure:"pip_command"`

	// ExcludeDirs lists extra directory names pruned during scanning,
	// on top of the built-in exclusions (.venv, __pycache__, ...).
	ExcludeDirs []string `mapstructure:"exclude_dirs"`

	// ExtraMappings adds import→package name mappings on top of the
	// built-in table, e.g. internal mirrors or renamed forks.
	ExtraMappings map[string]string `mapstructure:"extra_mappings"`

	// RedisAddr switches the PyPI response cache to Redis when set.
	RedisAddr string `mapstructure:"redis_addr"`
}

// configName is the basename of the project config file.
const configName = ".reqsmith"

// LoadConfig reads the project config from dir. A missing file is not an
// error; a malformed one is.
func LoadConfig(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("REQSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Defaults register the keys so AutomaticEnv can resolve them
	// during Unmarshal.
	v.SetDefault("manifest", "")
	v.SetDefault("pip_command", "")
	v.SetDefault("exclude_dirs", []string{})
	v.SetDefault("extra_mappings", map[string]string{})
	v.SetDefault("redis_addr", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read %s.toml: %w", configName, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s.toml: %w", configName, err)
	}
	return cfg, nil
}
