// Package config loads the lander's runtime configuration. Control-law
// constants are not configurable; the keys here cover logging, recording,
// metrics, and the built-in simulator only.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FlightlogConfig holds flight recorder settings.
type FlightlogConfig struct {
	Type           string `json:"type" mapstructure:"type"`
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
	FlushTicks     int    `json:"flushTicks" mapstructure:"flushTicks"`
}

// WebsocketConfig holds live streaming settings.
type WebsocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// Load reads configuration from the JSON config file and sets default
// values. configDir is the directory containing the config file. A missing
// file is not an error; defaults apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./landerlogs")

	viper.SetDefault("flightlog.type", "memory")
	viper.SetDefault("flightlog.outputDir", "./flights")
	viper.SetDefault("flightlog.compressOutput", false)
	viper.SetDefault("flightlog.flushTicks", 50)
	viper.SetDefault("flightlog.websocket.url", "ws://localhost:5001/stream")
	viper.SetDefault("flightlog.websocket.secret", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "lander")
	viper.SetDefault("db.sqlitePath", "")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "lander-metrics")
	viper.SetDefault("influx.bucket", "flight_data")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.listen", "localhost:8087")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("sim.gravity", 3.711)
	viper.SetDefault("sim.maxTicks", 3000)

	viper.SetConfigName("lander.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// Flightlog returns the flight recorder settings.
func Flightlog() FlightlogConfig {
	return FlightlogConfig{
		Type:           viper.GetString("flightlog.type"),
		OutputDir:      viper.GetString("flightlog.outputDir"),
		CompressOutput: viper.GetBool("flightlog.compressOutput"),
		FlushTicks:     viper.GetInt("flightlog.flushTicks"),
	}
}

// Websocket returns the live streaming settings.
func Websocket() WebsocketConfig {
	return WebsocketConfig{
		URL:    viper.GetString("flightlog.websocket.url"),
		Secret: viper.GetString("flightlog.websocket.secret"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}
