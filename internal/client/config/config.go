// Package config loads CLI settings from defaults, an optional JSON file,
// and command-line flags, in that order of precedence.
package config

// Config holds runtime settings for the diary CLI.
//
// Fields:
//   - ServerURL: base URL of the backend API, e.g. http://127.0.0.1:8080.
//   - OutputDir: directory where decrypted playback files are written.
type Config struct {
	ServerURL string
	OutputDir string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.OutputDir = "."
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
