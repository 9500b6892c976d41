package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`

	WeatherAPIKey  string        `mapstructure:"OPENWEATHER_API_KEY"`
	WeatherBaseURL string        `mapstructure:"WEATHER_BASE_URL"`
	WeatherTTL     time.Duration `mapstructure:"WEATHER_CACHE_TTL"`

	SLASweepInterval time.Duration `mapstructure:"SLA_SWEEP_INTERVAL"`
	SLAWarningHours  int           `mapstructure:"SLA_WARNING_HOURS"`

	GroupingRadiusKm float64 `mapstructure:"GROUPING_RADIUS_KM"`
	DisplayRadiusKm  float64 `mapstructure:"DISPLAY_RADIUS_KM"`

	HotspotEpsilonKm   float64 `mapstructure:"HOTSPOT_EPSILON_KM"`
	HotspotMinPoints   int     `mapstructure:"HOTSPOT_MIN_POINTS"`
	HeatmapBandwidthKm float64 `mapstructure:"HEATMAP_BANDWIDTH_KM"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("WEATHER_BASE_URL", "https://api.openweathermap.org")
	v.SetDefault("WEATHER_CACHE_TTL", "30m")

	v.SetDefault("SLA_SWEEP_INTERVAL", "5m")
	v.SetDefault("SLA_WARNING_HOURS", 6)

	v.SetDefault("GROUPING_RADIUS_KM", 2.0)
	v.SetDefault("DISPLAY_RADIUS_KM", 5.0)

	v.SetDefault("HOTSPOT_EPSILON_KM", 0.5)
	v.SetDefault("HOTSPOT_MIN_POINTS", 3)
	v.SetDefault("HEATMAP_BANDWIDTH_KM", 1.0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
