package config

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// WatchConfig re-reads the config file whenever it changes on disk and
// invokes apply with the freshly materialized Config. Watching is best
// effort: if no config file was found at startup there is nothing to
// watch and the call is a no-op.
func WatchConfig(v *viper.Viper, log *slog.Logger, apply func(*Config)) {
	if v.ConfigFileUsed() == "" {
		log.Debug("no config file in use, skipping watch")
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("config file changed, reloading", "file", e.Name, "op", e.Op.String())
		apply(FromViper(v))
	})
	v.WatchConfig()
}
