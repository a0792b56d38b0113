// Package jsonaiconfig loads jsonai's optional config layers: a
// ".jsonai.yaml" for defaults and a ".env" for environment overrides,
// following the same directory-config + godotenv pattern: a
// repository-root config file plus godotenv.Load in the entrypoint.
package jsonaiconfig

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jsonai/internal/apperr"
)

const fileName = ".jsonai.yaml"

// Defaults holds every value a user can override via config file, env
// var, or CLI flag, in that ascending precedence order -- flags
// always win; this struct only ever supplies the bottom two layers.
type Defaults struct {
	Limit     int    `yaml:"limit"`
	Threshold int    `yaml:"threshold"`
	Pretty    bool   `yaml:"pretty"`
	MatchMode string `yaml:"match_mode"`
}

// builtin are jsonai's built-in defaults, used when neither a config
// file nor an env var supplies a value.
func builtin() Defaults {
	return Defaults{Limit: 20, Threshold: 50, Pretty: false, MatchMode: "text"}
}

// Load resolves Defaults by layering, lowest precedence first:
// built-in default, then .jsonai.yaml (searched from cwd upward, then
// $HOME), then .env overrides (godotenv, cwd only). Callers layer CLI
// flags on top of the result themselves, since cobra already owns
// flag precedence.
func Load(cwd string) (Defaults, error) {
	d := builtin()

	if path, ok := findConfigFile(cwd); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return d, apperr.Wrap(apperr.KindInput, err, "reading %s", path)
		}
		if err := yaml.Unmarshal(data, &d); err != nil {
			return d, apperr.Wrap(apperr.KindParse, err, "parsing %s", path)
		}
	}

	envPath := filepath.Join(cwd, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return d, apperr.Wrap(apperr.KindInput, err, "loading %s", envPath)
		}
	}
	applyEnvOverrides(&d)

	return d, nil
}

// findConfigFile searches for .jsonai.yaml from dir upward to the
// filesystem root, then falls back to $HOME/.jsonai.yaml.
func findConfigFile(dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	for {
		candidate := filepath.Join(abs, fileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, fileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func applyEnvOverrides(d *Defaults) {
	if v := os.Getenv("JSONAI_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			d.Limit = n
		}
	}
	if v := os.Getenv("JSONAI_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			d.Threshold = n
		}
	}
	if v := os.Getenv("JSONAI_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			d.Pretty = b
		}
	}
	if v := os.Getenv("JSONAI_MATCH_MODE"); v != "" {
		d.MatchMode = v
	}
}
