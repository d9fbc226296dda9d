package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Env holds the settings read from the process environment.
type Env struct {
	// ConfigPath is PANO_CONFIG, the tour file to load.
	ConfigPath string
	// Debug is true when PANO_LOG_LEVEL is "debug".
	Debug bool
	// Dev is PANO_DEV, selecting the development log encoder.
	Dev bool
}

// DefaultConfigPath is used when PANO_CONFIG is unset.
const DefaultConfigPath = "tour.yaml"

// LoadEnv loads dotenv files into the environment and reads the viewer settings from it.
// Variables already set in the environment win over the files. A missing default ".env" is not an error,
// explicitly named files must exist.
//
// Parameters:
//   - files: dotenv files to load, ".env" when empty
//
// Returns:
//   - Env: the resolved settings
//   - error: an error if a named file is missing or malformed
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Env{}, fmt.Errorf("failed to load env files: %w", err)
	}

	env := Env{
		ConfigPath: os.Getenv("PANO_CONFIG"),
		Debug:      strings.EqualFold(os.Getenv("PANO_LOG_LEVEL"), "debug"),
	}
	if env.ConfigPath == "" {
		env.ConfigPath = DefaultConfigPath
	}
	if v := os.Getenv("PANO_DEV"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return Env{}, fmt.Errorf("PANO_DEV: %w", err)
		}
		env.Dev = dev
	}
	return env, nil
}
