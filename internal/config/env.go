package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consulted between flags and the config file.
const (
	EnvUser   = "ARTICULATE_USER"
	EnvDB     = "ARTICULATE_DB"
	EnvLog    = "ARTICULATE_LOG_LEVEL"
	EnvConfig = "ARTICULATE_CONFIG"
)

// LoadEnv loads dotenv files that exist. Variables already set in the
// process environment win. Missing files are skipped.
func LoadEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		existing = append(existing, p)
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Env returns the value of key and whether it is set to a non-empty value.
func Env(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
