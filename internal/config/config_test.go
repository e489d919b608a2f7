package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "https://www.figma.com", want: []string{"https://www.figma.com"}},
		{name: "list with blanks", in: " https://a.test/ , ,http://b.test", want: []string{"https://a.test", "http://b.test"}},
		{name: "wildcard", in: "*", want: []string{"*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseOrigins(tt.in))
		})
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAllowedOrigins, "")
	t.Setenv(EnvPort, "")
	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, "missing.json"), dir)
	require.NoError(t, err)
	require.Equal(t, 3001, cfg.Port)
	require.Equal(t, dir, cfg.DataDir)
	require.Equal(t, []string{DefaultOrigin}, cfg.AllowedOrigins)
	require.Equal(t, int64(10), cfg.MaxUploadSizeMB)
	require.Equal(t, []string{"en", "nl"}, cfg.Languages)
	require.Equal(t, "main", cfg.Bitbucket.Trunk)
}

func TestLoadOrDefaultEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 4000, "api_key": "from-file", "brand": "Acme"}`), 0o600))

	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvAllowedOrigins, "*")
	t.Setenv(EnvPort, "5000")

	cfg, err := LoadOrDefault(path, "")
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.APIKey)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	require.Equal(t, 5000, cfg.Port)
	require.Equal(t, "Acme", cfg.Brand)

	t.Setenv(EnvPort, "abc")
	_, err = LoadOrDefault(path, "")
	require.Error(t, err)
}

func TestSaveRoundTripsThroughLoad(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAllowedOrigins, "")
	t.Setenv(EnvPort, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := Default(dir)
	cfg.Bitbucket.Workspace = "acme"
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadOrDefault(path, "")
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	base := Default(t.TempDir())
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
		{name: "upload size", mutate: func(c *Config) { c.MaxUploadSizeMB = 0 }},
		{name: "languages", mutate: func(c *Config) { c.Languages = nil }},
		{name: "origin", mutate: func(c *Config) { c.AllowedOrigins = []string{"figma.com"} }},
	}
	require.NoError(t, Validate(base))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(t.TempDir())
			tt.mutate(&cfg)
			require.Error(t, Validate(cfg))
		})
	}
}
