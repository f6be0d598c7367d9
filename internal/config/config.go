package config

import (
	"github.com/spf13/viper"

	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/internal/paths"
	"github.com/sbu-cli/sbu/pkg/fileutil"
)

// Config represents the top-level configuration structure.
type Config struct {
	// OverwriteMode is the default overwrite mode when neither --force
	// nor --interactive is given: default, force, or interactive.
	OverwriteMode string `mapstructure:"overwrite_mode" yaml:"overwrite_mode"`

	// Compress is the archive format used when --compress is given
	// without a value: zip, tar, tgz, or tzst.
	Compress string `mapstructure:"compress" yaml:"compress"`

	// Workers bounds concurrent path validation.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// Report writes a TOML run report into the destination after each run.
	Report bool `mapstructure:"report" yaml:"report"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("SBU")
	viper.AutomaticEnv()

	viper.SetDefault("overwrite_mode", "default")
	viper.SetDefault("compress", "tgz")
	viper.SetDefault("workers", 8)
	viper.SetDefault("report", false)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back
// to defaults when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
			// Implicit load without a config file is fine; defaults apply.
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.OverwriteMode {
	case "", "default", "force", "interactive":
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown overwrite_mode %q", c.OverwriteMode)
	}

	switch c.Compress {
	case "", "zip", "tar", "tgz", "tzst":
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown compress format %q", c.Compress)
	}

	if c.Workers < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// WriteDefault writes a config file with the current defaults to the
// standard location, creating the config directory if needed. Returns
// the path written.
func WriteDefault() (string, error) {
	if err := paths.EnsureDir(paths.ConfigDir(), 0); err != nil {
		return "", errors.Wrap(err, "creating config directory")
	}

	cfg := Config{
		OverwriteMode: viper.GetString("overwrite_mode"),
		Compress:      viper.GetString("compress"),
		Workers:       viper.GetInt("workers"),
		Report:        viper.GetBool("report"),
	}

	path := paths.ConfigFile()
	if err := fileutil.AtomicWriteYAML(path, &cfg); err != nil {
		return "", err
	}
	return path, nil
}
