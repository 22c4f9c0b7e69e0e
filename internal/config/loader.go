package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/vahedem/subhunt/internal/httpclient"
	"github.com/vahedem/subhunt/internal/pipeline"
	"github.com/vahedem/subhunt/internal/sources"
)

// GetDefaultConfigPath returns the OS-appropriate default config file path.
// Accepts userConfigDir for dependency injection (testability).
func GetDefaultConfigPath(userConfigDir func() (string, error)) (string, error) {
	// - Windows: %AppData%
	// - macOS: $HOME/Library/Application Support
	// - Linux: $XDG_CONFIG_HOME or $HOME/.config
	configDir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "subhunt", "config.yaml"), nil
}

// Load loads the configuration from the specified path or default location.
// If configPath is empty, it uses the OS-appropriate default path.
// If the config file doesn't exist, it returns a default configuration.
func Load(configPath string, userConfigDir func() (string, error)) (*Config, error) {
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath(userConfigDir)
		if err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is not an error; the defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures viper default values matching NewDefaultConfig.
func setDefaults(v *viper.Viper) {
	v.SetDefault("all_sources", false)
	v.SetDefault("concurrency", pipeline.DefaultWorkers)
	v.SetDefault("max_in_flight", pipeline.DefaultMaxInFlight)
	v.SetDefault("attempts", httpclient.DefaultAttempts)
	v.SetDefault("page_size", sources.DefaultPageSize)
	v.SetDefault("nameserver", "")
	v.SetDefault("proxy", "")
	v.SetDefault("user_agent", "")
	v.SetDefault("geoip_db", "")
	v.SetDefault("verbose", false)
}
