package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env and .env.local from dir when present. Variables
// already set in the process environment are kept.
func loadEnvFiles(dir string) error {
	var found []string
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if len(found) == 0 {
		return nil
	}
	return godotenv.Load(found...)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with their values. Bare $ signs are
// left alone so TeX macros and prices survive.
func expandEnv(text string) string {
	return envRef.ReplaceAllStringFunc(text, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}
