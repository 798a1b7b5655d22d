package config

import (
	"encoding/json"
	"os"

	"sollog/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Values are
// copied into the runtime Config after parsing.
type JsonConfig struct {
	ServerURL string `json:"server_url"`
	OutputDir string `json:"output_dir"`
}

// parseJson overlays Config with values loaded from a JSON file named by the
// -c/-config flag. Empty JSON fields leave the current value alone. Intended
// usage is: defaults -> parseJson -> parseFlags, where later stages override
// earlier ones. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.OutputDir != "" {
		cfg.OutputDir = jc.OutputDir
	}
}
