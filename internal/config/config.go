package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Revalidate RevalidateConfig `mapstructure:"revalidate"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// Per-client token bucket for the rate limit middleware.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	RateBurst     int     `mapstructure:"rate_burst"`
}

type DatabaseConfig struct {
	// Driver selects the backend: "postgres" for deployments, "sqlite" for
	// local single-binary runs. DSN is the postgres connection string; Path
	// is the sqlite file.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Path   string `mapstructure:"path"`
}

// AuthConfig defines session verification settings. Tokens are issued by the
// external identity provider; only the shared HMAC secret lives here.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// RevalidateConfig points at the rendering layer's revalidation endpoint.
// Leave URL empty to disable signaling.
type RevalidateConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

type LogConfig struct {
	// Env switches log output: "dev" is pretty console, anything else JSON.
	Env string `mapstructure:"env"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	viper.AutomaticEnv()
	// Nested keys map to env vars, e.g. database.dsn -> DATABASE_DSN
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Every key needs a default so env-only deployments unmarshal fully;
	// viper only surfaces env values for keys it already knows about.
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.rate_per_second", 20)
	viper.SetDefault("server.rate_burst", 40)
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=liftingdiary port=5432 sslmode=disable")
	viper.SetDefault("database.path", "liftingdiary.db")
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("revalidate.url", "")
	viper.SetDefault("revalidate.token", "")
	viper.SetDefault("log.env", "dev")

	// --- Read Config File ---
	err = viper.ReadInConfig()
	// A missing file is fine, the defaults plus env vars carry a full config.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
