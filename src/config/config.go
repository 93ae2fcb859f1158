package config

import (
	"github.com/spf13/viper"
)

// Config holds all process configuration, loaded from the environment.
type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	JWTSecret    string
	CORSOrigins  string
	NotifyBuffer int
	Debug        bool
}

// Load reads configuration from environment variables with sane defaults
// for local development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "3000")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "devlink")
	v.SetDefault("JWT_SECRET", "fallback-secret-key")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("NOTIFY_BUFFER", 256)
	v.SetDefault("DEBUG", false)

	v.AutomaticEnv()

	return &Config{
		Port:         v.GetString("PORT"),
		MongoURI:     v.GetString("MONGODB_URI"),
		DBName:       v.GetString("DB_NAME"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		CORSOrigins:  v.GetString("CORS_ORIGINS"),
		NotifyBuffer: v.GetInt("NOTIFY_BUFFER"),
		Debug:        v.GetBool("DEBUG"),
	}, nil
}
