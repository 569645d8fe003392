// Package config provides application settings loaded from environment
// variables and credential resolution across preference slots and the
// environment.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Settings holds all application configuration.
type Settings struct {
	Generation GenerationSettings
	PrefsPath  string
}

// GenerationSettings holds defaults applied to every generation request.
type GenerationSettings struct {
	Model           string
	MaxOutputTokens int32
	Temperature     float32
}

// New creates settings from environment variables.
// Returns an error if an environment variable contains an invalid value.
func New() (Settings, error) {
	maxTokens, err := getEnvInt32("SNAPGEN_MAX_TOKENS", 4096)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat32("SNAPGEN_TEMPERATURE", 0.7)
	if err != nil {
		return Settings{}, err
	}

	prefsPath := os.Getenv("SNAPGEN_PREFS_PATH")
	if prefsPath == "" {
		prefsPath = defaultPrefsPath()
	}

	return Settings{
		Generation: GenerationSettings{
			Model:           os.Getenv("SNAPGEN_MODEL"),
			MaxOutputTokens: maxTokens,
			Temperature:     temperature,
		},
		PrefsPath: prefsPath,
	}, nil
}

// MustNew creates settings from environment variables.
// Panics on invalid values. Use this only when configuration errors should
// be fatal.
func MustNew() Settings {
	settings, err := New()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// defaultPrefsPath places the preference database under the user's home
// directory, falling back to the working directory when home is unknown.
func defaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".snapgen", "prefs.db")
	}
	return filepath.Join(home, ".snapgen", "prefs.db")
}

// Environment variable helpers with proper error handling

func getEnvInt32(key string, defaultVal int32) (int32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return int32(i), nil
}

func getEnvFloat32(key string, defaultVal float32) (float32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return float32(f), nil
}
