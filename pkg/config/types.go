package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent thermoline configuration stored as
// config.toml in the .thermoline/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Server  ServerConfig  `toml:"server"`
	Stream  StreamConfig  `toml:"stream"`
	Safety  SafetyConfig  `toml:"safety"`
	Sensord SensordConfig `toml:"sensord"`
}

// ServerConfig holds settings for the sensor feed the CLI connects to.
type ServerConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
}

// StreamConfig holds live-stream session settings. Durations are stored
// as Go duration strings (e.g. "1s", "500ms").
type StreamConfig struct {
	Backoff        string `toml:"backoff,omitempty"`
	ConnectTimeout string `toml:"connect_timeout,omitempty"`
}

// SafetyConfig holds the safe temperature interval in °C.
type SafetyConfig struct {
	Min float64 `toml:"min,omitempty"`
	Max float64 `toml:"max,omitempty"`
}

// SensordConfig holds settings for the bundled simulator daemon.
type SensordConfig struct {
	Listen    string  `toml:"listen,omitempty"`
	Interval  string  `toml:"interval,omitempty"`
	StartTemp float64 `toml:"start_temp,omitempty"`
}

// BackoffDuration parses the configured reconnect backoff, falling back to
// the default when unset or invalid.
func (c *Config) BackoffDuration() time.Duration {
	if d, err := time.ParseDuration(c.Stream.Backoff); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(defaultStreamBackoff)
	return d
}

// ConnectTimeoutDuration parses the configured connect timeout, falling
// back to the default when unset or invalid.
func (c *Config) ConnectTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.Stream.ConnectTimeout); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(defaultStreamConnectTimeout)
	return d
}

// IntervalDuration parses the configured simulator emit interval, falling
// back to the default when unset or invalid.
func (c *Config) IntervalDuration() time.Duration {
	if d, err := time.ParseDuration(c.Sensord.Interval); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(defaultSensordInterval)
	return d
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func durationSetter(assign func(c *Config, v string)) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		assign(c, v)
		return nil
	}
}

func floatSetter(key string, assign func(c *Config, f float64)) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		assign(c, f)
		return nil
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.base_url": {
		get: func(c *Config) string { return c.Server.BaseURL },
		set: func(c *Config, v string) error { c.Server.BaseURL = v; return nil },
	},
	"stream.backoff": {
		get: func(c *Config) string { return c.Stream.Backoff },
		set: durationSetter(func(c *Config, v string) { c.Stream.Backoff = v }),
	},
	"stream.connect_timeout": {
		get: func(c *Config) string { return c.Stream.ConnectTimeout },
		set: durationSetter(func(c *Config, v string) { c.Stream.ConnectTimeout = v }),
	},
	"safety.min": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Safety.Min, 'f', -1, 64) },
		set: floatSetter("safety.min", func(c *Config, f float64) { c.Safety.Min = f }),
	},
	"safety.max": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Safety.Max, 'f', -1, 64) },
		set: floatSetter("safety.max", func(c *Config, f float64) { c.Safety.Max = f }),
	},
	"sensord.listen": {
		get: func(c *Config) string { return c.Sensord.Listen },
		set: func(c *Config, v string) error { c.Sensord.Listen = v; return nil },
	},
	"sensord.interval": {
		get: func(c *Config) string { return c.Sensord.Interval },
		set: durationSetter(func(c *Config, v string) { c.Sensord.Interval = v }),
	},
	"sensord.start_temp": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Sensord.StartTemp, 'f', -1, 64) },
		set: floatSetter("sensord.start_temp", func(c *Config, f float64) { c.Sensord.StartTemp = f }),
	},
}
