package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const appName = "whitelabel"

const (
	EnvConfig         = "WHITELABEL_CONFIG"
	EnvAPIKey         = "FAVICON_API_KEY"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"
	EnvPort           = "PORT"
)

const DefaultOrigin = "https://www.figma.com"

type Bitbucket struct {
	BaseURL   string `json:"base_url"`
	Workspace string `json:"workspace"`
	RepoSlug  string `json:"repo_slug"`
	Trunk     string `json:"trunk"`
	Username  string `json:"username"`
}

type Config struct {
	Bind     string `json:"bind"`
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
	DataDir  string `json:"data_dir"`

	APIKey          string   `json:"api_key"`
	AllowedOrigins  []string `json:"allowed_origins"`
	MaxUploadSizeMB int64    `json:"max_upload_size_mb"`

	Brand           string   `json:"brand"`
	NeutralColorVar string   `json:"neutral_color_var"`
	Languages       []string `json:"languages"`

	Bitbucket Bitbucket `json:"bitbucket"`
}

func DefaultPaths() (configPath, dataDir string, err error) {
	cfgRoot, err := os.UserConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("resolve user config dir: %w", err)
	}
	var dataRoot string
	switch runtime.GOOS {
	case "windows":
		dataRoot = cfgRoot
	default:
		if p, derr := os.UserHomeDir(); derr == nil {
			dataRoot = filepath.Join(p, ".local", "share")
		} else {
			dataRoot = cfgRoot
		}
	}
	configPath = filepath.Join(cfgRoot, appName, "config.json")
	dataDir = filepath.Join(dataRoot, appName)
	return configPath, dataDir, nil
}

func Default(dataDir string) Config {
	return Config{
		Bind:            "0.0.0.0",
		Port:            3001,
		LogLevel:        "info",
		DataDir:         dataDir,
		AllowedOrigins:  []string{DefaultOrigin},
		MaxUploadSizeMB: 10,
		NeutralColorVar: "neutralGray",
		Languages:       []string{"en", "nl"},
		Bitbucket: Bitbucket{
			BaseURL: "https://api.bitbucket.org/2.0",
			Trunk:   "main",
		},
	}
}

// ParseOrigins splits a comma separated origin list, dropping blanks.
func ParseOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ApplyEnv overlays the environment variables the favicon service has
// always honoured.
func ApplyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvAllowedOrigins); strings.TrimSpace(v) != "" {
		cfg.AllowedOrigins = ParseOrigins(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q", EnvPort, v)
		}
		cfg.Port = port
	}
	return nil
}

func LoadOrDefault(configPath, dataDirOverride string) (Config, error) {
	_, defaultData, err := DefaultPaths()
	if err != nil {
		return Config{}, err
	}
	cfg := Default(defaultData)

	b, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	if dataDirOverride != "" {
		cfg.DataDir = dataDirOverride
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Save(configPath string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	buf, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(configPath, buf, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func Validate(cfg Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	if cfg.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	if len(cfg.Languages) == 0 {
		return fmt.Errorf("at least one language is required")
	}
	for _, o := range cfg.AllowedOrigins {
		if o != "*" && !strings.Contains(o, "://") {
			return fmt.Errorf("invalid allowed origin %q", o)
		}
	}
	return nil
}

func ConfigPathFromEnv() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	cfgPath, _, err := DefaultPaths()
	return cfgPath, err
}
