package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"camclone/internal/policy"
)

// Config is the on-disk configuration: import paths plus the policy table
// keyed by rating. Directive strings are validated at load time; a malformed
// entry is a setup error, never a per-file one.
type Config struct {
	Import struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"import"`
	Policies []PolicyEntry `yaml:"policies"`

	Table policy.Table `yaml:"-"`
}

type PolicyEntry struct {
	Rate    []int             `yaml:"rate"`
	Command map[string]string `yaml:"command"`
}

type envOverrides struct {
	From string `env:"CAMCLONE_FROM"`
	To   string `env:"CAMCLONE_TO"`
}

// Load reads, parses, and validates the configuration file, then applies
// environment fallbacks for paths left empty.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Build(contents)
	if err != nil {
		return Config{}, err
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return Config{}, err
	}
	if cfg.Import.From == "" {
		cfg.Import.From = overrides.From
	}
	if cfg.Import.To == "" {
		cfg.Import.To = overrides.To
	}

	cfg.Import.From = ExpandHome(cfg.Import.From)
	cfg.Import.To = ExpandHome(cfg.Import.To)
	return cfg, nil
}

// Build parses configuration contents and resolves every policy entry into
// the rating table.
func Build(contents []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Table = make(policy.Table)
	for _, entry := range cfg.Policies {
		p, err := policy.ParseDirectives(entry.Command)
		if err != nil {
			return Config{}, fmt.Errorf("policy for rate %v: %w", entry.Rate, err)
		}
		for _, rate := range entry.Rate {
			cfg.Table[rate] = p
		}
	}
	return cfg, nil
}

// ExpandHome resolves a leading "~/" against the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

// Dir returns the application home directory (~/.camclone).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".camclone"), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func DefaultCredPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials"), nil
}

func ClientSecretPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "client_secret.json"), nil
}

// DefaultYAML is written by `camclone init`.
//
// Note the resize semantics: a percentage shrinks the pixel count, not the
// side lengths, so "resize: 50%" halves the megapixels.
const DefaultYAML = `import:
  from: YOUR_ORIGIN_PATH
  to: YOUR_TARGET_PATH
policies:
  - rate: [4]
    command:
      format: heic
  - rate: [3]
    command:
      format: heic
      resize: 50m
  - rate: [0, 1, 2]
    command:
      format: heic
      resize: 36m
      quality: 92%
`
