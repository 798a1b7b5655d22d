package config

import (
	"encoding/json"
	"os"
	"time"

	"sollog/internal/flagx"
	"sollog/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration so both "1h" strings and integer
// nanoseconds parse. After unmarshalling, values are copied into the runtime
// Config.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	FetchURLValidityDuration    timex.Duration `json:"fetch_url_validity_duration"`
	MissionStart                string         `json:"mission_start"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags. If no file is named, nothing is loaded. Unreadable or
// invalid files panic: a config file that exists but cannot be used is a
// deployment error.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.HTTPAddr != "" {
		config.HTTPAddr = c.HTTPAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.FetchURLValidityDuration.Duration != 0 {
		config.FetchURLValidityDuration = c.FetchURLValidityDuration.Duration
	}
	if c.MissionStart != "" {
		d, err := time.Parse("2006-01-02", c.MissionStart)
		if err != nil {
			panic(err)
		}
		config.MissionStart = d
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
