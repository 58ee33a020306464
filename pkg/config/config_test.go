package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, config.Catalog.BaseURL)
	assert.Equal(t, 1542, config.Catalog.SearchID)
	assert.Equal(t, DefaultUserAgent, config.Catalog.UserAgent)
	assert.Equal(t, 60*time.Second, config.Catalog.Timeout)
	assert.Equal(t, filepath.Join("downloads", "c2db"), config.Output.BaseDirectory)
	assert.Equal(t, time.Second, config.Download.Delay)
	assert.Equal(t, -1, config.Download.MaxMaterials)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestManifestPath(t *testing.T) {
	config := DefaultConfig()
	config.Output.BaseDirectory = "/data/c2db"
	assert.Equal(t, filepath.Join("/data/c2db", "manifest.json"), config.ManifestPath())

	config.Output.Manifest = "/tmp/other/manifest.json"
	assert.Equal(t, "/tmp/other/manifest.json", config.ManifestPath())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("C2DB_SID", "77")
	t.Setenv("C2DB_OUTPUT_DIR", "/tmp/c2db-env")
	t.Setenv("C2DB_DELAY", "0.25")
	t.Setenv("C2DB_MAX_MATERIALS", "10")
	t.Setenv("C2DB_REQUESTS_PER_MINUTE", "30")
	t.Setenv("C2DB_LOG_LEVEL", "debug")
	t.Setenv("C2DB_MANIFEST", "/tmp/c2db-env/m.json")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, 77, config.Catalog.SearchID)
	assert.Equal(t, "/tmp/c2db-env", config.Output.BaseDirectory)
	assert.Equal(t, 250*time.Millisecond, config.Download.Delay)
	assert.Equal(t, 10, config.Download.MaxMaterials)
	assert.Equal(t, 30, config.RateLimit.RequestsPerMinute)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "/tmp/c2db-env/m.json", config.ManifestPath())
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("C2DB_SID", "abc")
	t.Setenv("C2DB_DELAY", "soon")

	config := DefaultConfig()
	err := config.LoadFromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "C2DB_SID")
	assert.Contains(t, err.Error(), "C2DB_DELAY")
	assert.Equal(t, DefaultSearchID, config.Catalog.SearchID)
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1", time.Second, false},
		{"0", 0, false},
		{"1.5", 1500 * time.Millisecond, false},
		{"250ms", 250 * time.Millisecond, false},
		{" 2s ", 2 * time.Second, false},
		{"later", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeconds(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c2dbscraper.yaml")
	content := `catalog:
  sid: 2000
  timeout: 15s
output:
  base_directory: /srv/c2db
download:
  delay: 500ms
  max_materials: 3
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(path))

	assert.Equal(t, 2000, config.Catalog.SearchID)
	assert.Equal(t, 15*time.Second, config.Catalog.Timeout)
	assert.Equal(t, DefaultBaseURL, config.Catalog.BaseURL, "unset keys keep defaults")
	assert.Equal(t, "/srv/c2db", config.Output.BaseDirectory)
	assert.Equal(t, 500*time.Millisecond, config.Download.Delay)
	assert.Equal(t, 3, config.Download.MaxMaterials)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadFromFilePlainSeconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c2dbscraper.yaml")
	content := `catalog:
  timeout: 60
download:
  delay: 1
  max_materials: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(path))

	assert.Equal(t, 60*time.Second, config.Catalog.Timeout)
	assert.Equal(t, time.Second, config.Download.Delay)
	assert.Equal(t, 5, config.Download.MaxMaterials)
	assert.Equal(t, DefaultSearchID, config.Catalog.SearchID, "unset keys keep defaults")

	fractional := filepath.Join(t.TempDir(), "fractional.yaml")
	require.NoError(t, os.WriteFile(fractional, []byte("download:\n  delay: 0.25\n"), 0644))
	require.NoError(t, config.LoadFromFile(fractional))
	assert.Equal(t, 250*time.Millisecond, config.Download.Delay)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("download:\n  delay: soon\n"), 0644))
	err := config.LoadFromFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay")
}

func TestLoadFromFileErrors(t *testing.T) {
	config := DefaultConfig()
	err := config.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("catalog: [unterminated"), 0644))
	err = config.LoadFromFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:      "missing base url",
			mutate:    func(c *Config) { c.Catalog.BaseURL = "" },
			wantError: "catalog base URL is required",
		},
		{
			name:      "relative base url",
			mutate:    func(c *Config) { c.Catalog.BaseURL = "c2db.local" },
			wantError: "not an absolute URL",
		},
		{
			name:      "negative delay",
			mutate:    func(c *Config) { c.Download.Delay = -time.Second },
			wantError: "delay cannot be negative",
		},
		{
			name:      "empty output directory",
			mutate:    func(c *Config) { c.Output.BaseDirectory = "" },
			wantError: "output directory is required",
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "loud" },
			wantError: "invalid log level",
		},
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.Catalog.Timeout = 0 },
			wantError: "request timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	config := DefaultConfig()
	config.Catalog.UserAgent = ""
	config.RateLimit.RequestsPerMinute = -1

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user agent is required")
	assert.Contains(t, err.Error(), "requests per minute cannot be negative")
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"sid":           12,
		"output":        "/out",
		"delay":         time.Duration(0),
		"max-materials": 0,
		"manifest":      "/out/list.json",
		"log-level":     "error",
		"base-url":      "http://localhost:8080",
	})

	assert.Equal(t, 12, config.Catalog.SearchID)
	assert.Equal(t, "/out", config.Output.BaseDirectory)
	assert.Equal(t, time.Duration(0), config.Download.Delay)
	assert.Equal(t, 0, config.Download.MaxMaterials)
	assert.Equal(t, "/out/list.json", config.ManifestPath())
	assert.Equal(t, "error", config.Logging.Level)
	assert.Equal(t, "http://localhost:8080", config.Catalog.BaseURL)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  sid: 5\noutput:\n  base_directory: /from-file\n"), 0644))

	t.Setenv("C2DB_SID", "6")

	config, err := Load(path, map[string]interface{}{"output": "/from-flag"})
	require.NoError(t, err)

	assert.Equal(t, 6, config.Catalog.SearchID, "env overrides file")
	assert.Equal(t, "/from-flag", config.Output.BaseDirectory, "flags override file")
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"), nil)
	require.Error(t, err, "explicit config path must exist")

	_, err = Load("", map[string]interface{}{"log-level": "shout"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := DefaultConfig()
	config.Catalog.SearchID = 99
	config.Download.Delay = 2 * time.Second
	require.NoError(t, config.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, config, loaded)
}
