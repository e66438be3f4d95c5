package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/thermolineco/thermoline/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the THERMOLINE_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (THERMOLINE_SERVER_BASE_URL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: THERMOLINE_SERVER_BASE_URL, THERMOLINE_SAFETY_MIN, etc.
	v.SetEnvPrefix("THERMOLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Server
	v.SetDefault("server.base_url", d.Server.BaseURL)

	// Stream
	v.SetDefault("stream.backoff", d.Stream.Backoff)
	v.SetDefault("stream.connect_timeout", d.Stream.ConnectTimeout)

	// Safety
	v.SetDefault("safety.min", d.Safety.Min)
	v.SetDefault("safety.max", d.Safety.Max)

	// Sensord
	v.SetDefault("sensord.listen", d.Sensord.Listen)
	v.SetDefault("sensord.interval", d.Sensord.Interval)
	v.SetDefault("sensord.start_temp", d.Sensord.StartTemp)
}

// FromViper materializes a Config from the resolved viper state, so commands
// work against one struct regardless of where each value came from.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Server: ServerConfig{
			BaseURL: v.GetString("server.base_url"),
		},
		Stream: StreamConfig{
			Backoff:        v.GetString("stream.backoff"),
			ConnectTimeout: v.GetString("stream.connect_timeout"),
		},
		Safety: SafetyConfig{
			Min: v.GetFloat64("safety.min"),
			Max: v.GetFloat64("safety.max"),
		},
		Sensord: SensordConfig{
			Listen:    v.GetString("sensord.listen"),
			Interval:  v.GetString("sensord.interval"),
			StartTemp: v.GetFloat64("sensord.start_temp"),
		},
	}
}
