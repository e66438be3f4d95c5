package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --server
// on "thermoline watch", "thermoline tail", and "thermoline history").
type Flag struct {
	// Name is the long flag name (e.g. "server").
	Name string

	// Shorthand is the one-letter short flag (e.g. "s"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "server.base_url").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddFloatFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagServer           = "server"
	FlagBackoff          = "backoff"
	FlagConnectTimeout   = "connect-timeout"
	FlagSafetyMin        = "safety-min"
	FlagSafetyMax        = "safety-max"
	FlagSensordListen    = "listen"
	FlagSensordInterval  = "interval"
	FlagSensordStartTemp = "start-temp"
)

// Flags is the shared flag registry used across the command tree.
var Flags = FlagSet{
	FlagServer: {
		Name:        "server",
		Shorthand:   "s",
		ViperKey:    "server.base_url",
		Description: "base URL of the sensor feed",
	},
	FlagBackoff: {
		Name:        "backoff",
		ViperKey:    "stream.backoff",
		Description: "delay between reconnect attempts (e.g. 1s, 500ms)",
	},
	FlagConnectTimeout: {
		Name:        "connect-timeout",
		ViperKey:    "stream.connect_timeout",
		Description: "timeout for establishing the stream connection",
	},
	FlagSafetyMin: {
		Name:        "safety-min",
		ViperKey:    "safety.min",
		Description: "lower bound of the safe temperature range in °C",
	},
	FlagSafetyMax: {
		Name:        "safety-max",
		ViperKey:    "safety.max",
		Description: "upper bound of the safe temperature range in °C",
	},
	FlagSensordListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "sensord.listen",
		Description: "address for the simulator to listen on",
	},
	FlagSensordInterval: {
		Name:        "interval",
		ViperKey:    "sensord.interval",
		Description: "interval between simulated readings",
	},
	FlagSensordStartTemp: {
		Name:        "start-temp",
		ViperKey:    "sensord.start_temp",
		Description: "initial temperature for the simulated random walk",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddFloatFlag registers a float64 flag on cmd from the given FlagSet.
func AddFloatFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *float64) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultFloat(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().Float64VarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().Float64Var(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultFloat returns the default float64 value for a viper key from NewDefaultConfig.
func defaultFloat(viperKey string) float64 {
	v := viper.New()
	setViperDefaults(v)
	return v.GetFloat64(viperKey)
}
