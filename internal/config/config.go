package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env               string        `mapstructure:"ENV"`
	Port              string        `mapstructure:"PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	APIKey            string        `mapstructure:"API_KEY"`
	CORSAllowed       string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	ReferenceDataPath string        `mapstructure:"REFERENCE_DATA_PATH"`

	// Used by the operator CLI to reach a running backend.
	APIBaseURL string `mapstructure:"API_BASE_URL"`
	APIPath    string `mapstructure:"API_PATH"`
	UserID     int64  `mapstructure:"USER_ID"`

	GeocoderURL       string `mapstructure:"GEOCODER_URL"`
	GeocoderUserAgent string `mapstructure:"GEOCODER_USER_AGENT"`
	GeocoderCountries string `mapstructure:"GEOCODER_COUNTRY_CODES"`
}

// Load reads .env from file (if present) and overlays the environment.
func Load() (Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REFERENCE_DATA_PATH", "")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("API_PATH", "/api/call_email")
	v.SetDefault("USER_ID", 0)
	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "callemail-intake/1.0")
	v.SetDefault("GEOCODER_COUNTRY_CODES", "au")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
