package config

import "os"

const (
	// TrashDirName and PicksDirName are the fixed lifecycle subdirectories of
	// the base directory; they are never independently configurable.
	TrashDirName = "trash"
	PicksDirName = "picks"
)

const defaultSettingsPath = "settings.json"

// Config holds process-level settings resolved from the environment at
// startup. Mutable state (base directory, auth secret) lives in the Registry
// instead, backed by the settings file.
type Config struct {
	// path of the persisted settings file
	SettingsPath string

	// HTTP listen port
	Port string

	// origin allowed to call the API from a browser
	AllowedOrigin string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func LoadConfig() Config {
	return Config{
		SettingsPath:  getEnvOrDefault("SETTINGS_PATH", defaultSettingsPath),
		Port:          getEnvOrDefault("PORT", "8080"),
		AllowedOrigin: getEnvOrDefault("ALLOWED_ORIGIN", "http://localhost:5173"),
	}
}
