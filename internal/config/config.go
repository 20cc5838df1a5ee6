package config

import (
	"errors"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr      string `yaml:"addr"`
		StaticDir string `yaml:"static_dir"` // served at "/" when set
	} `yaml:"server"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Workspace struct {
		Root    string `yaml:"root"`
		LeanDir string `yaml:"lean_dir"` // relative to Root unless absolute
	} `yaml:"workspace"`
	Validation struct {
		Strict bool `yaml:"strict"`
	} `yaml:"validation"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Server.Addr = ":5000"
	cfg.Storage.DBPath = "proofmd.db"
	cfg.Workspace.Root = "."
	cfg.Workspace.LeanDir = "data/lean"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config on top of the defaults; a missing file is fine
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	// 3. Override with Environment Variables if present
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROOFMD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PROOFMD_STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("PROOFMD_DB"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("PROOFMD_WORKSPACE"); v != "" {
		cfg.Workspace.Root = v
	}
	if v := os.Getenv("PROOFMD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PROOFMD_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PROOFMD_STRICT"); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			cfg.Validation.Strict = strict
		}
	}
}

// Validate checks the settings that would otherwise fail late, at listen or
// logger construction time.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Addr, validation.Required),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&c.Storage,
		validation.Field(&c.Storage.DBPath, validation.Required),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Logging,
		validation.Field(&c.Logging.Level, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")),
		validation.Field(&c.Logging.Format, validation.In("json", "console", "pretty")),
	)
}
