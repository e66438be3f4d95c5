package config

const (
	defaultServerBaseURL = "http://localhost:3000"

	defaultStreamBackoff        = "1s"
	defaultStreamConnectTimeout = "3s"

	defaultSafetyMin = 20.0
	defaultSafetyMax = 80.0

	defaultSensordListen    = ":3000"
	defaultSensordInterval  = "500ms"
	defaultSensordStartTemp = 50.0
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			BaseURL: defaultServerBaseURL,
		},
		Stream: StreamConfig{
			Backoff:        defaultStreamBackoff,
			ConnectTimeout: defaultStreamConnectTimeout,
		},
		Safety: SafetyConfig{
			Min: defaultSafetyMin,
			Max: defaultSafetyMax,
		},
		Sensord: SensordConfig{
			Listen:    defaultSensordListen,
			Interval:  defaultSensordInterval,
			StartTemp: defaultSensordStartTemp,
		},
	}
}
