package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables, loading a
// local .env file first when one exists. Unset variables leave the current
// value untouched; unparseable durations and dates are ignored rather than
// fatal, since flags can still correct them.
func parseEnv(config *Config) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("SOLLOG_HTTP_ADDR", &config.HTTPAddr)
	setString("SOLLOG_DATABASE_DSN", &config.DatabaseDSN)
	setString("SOLLOG_SECRET_KEY", &config.SecretKey)
	setString("SOLLOG_S3_ROOT_USER", &config.S3RootUser)
	setString("SOLLOG_S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("SOLLOG_S3_BUCKET", &config.S3Bucket)
	setString("SOLLOG_S3_REGION", &config.S3Region)
	setString("SOLLOG_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv("SOLLOG_ACCESS_TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("SOLLOG_FETCH_URL_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.FetchURLValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("SOLLOG_MISSION_START"); ok {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			config.MissionStart = d
		}
	}
}
