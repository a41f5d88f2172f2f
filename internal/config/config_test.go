package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, ":4000", cfg.Server.Address())
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, 50, cfg.GitHub.PerPage)
	assert.Equal(t, 30, cfg.Changelog.MaxCommits)
	assert.Equal(t, 3, cfg.Changelog.MaxHighlights)
	assert.Equal(t, 50, cfg.Changelog.ListLimit)
	assert.False(t, cfg.WhatsApp.Enabled)
	assert.Empty(t, cfg.Security.APIKeys)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("SERVER_WRITE_TIMEOUT", "45s")
	t.Setenv("GITHUB_API_URL", "https://ghe.example.com/api/v3/")
	t.Setenv("GITHUB_TOKEN", "ghp_example")
	t.Setenv("CHANGELOG_MAX_COMMITS", "10")
	t.Setenv("API_KEYS", " first-secure-key , ,second-secure-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8081", cfg.Server.Address())
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.GitHub.APIURL)
	assert.Equal(t, "ghp_example", cfg.GitHub.Token)
	assert.Equal(t, 10, cfg.Changelog.MaxCommits)
	assert.Equal(t, []string{"first-secure-key", "second-secure-key"}, cfg.Security.APIKeys)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("WHATSAPP_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.False(t, cfg.WhatsApp.Enabled)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 4000},
			Database:  DatabaseConfig{Driver: "sqlite3", DSN: "file::memory:"},
			GitHub:    GitHubConfig{APIURL: "https://api.github.com", PerPage: 50},
			Changelog: ChangelogConfig{MaxCommits: 30, MaxHighlights: 3, ListLimit: 50},
			Security:  SecurityConfig{RateLimitPerMinute: 60},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "invalid server port"},
		{name: "missing driver", mutate: func(c *Config) { c.Database.Driver = "" }, wantErr: "database driver"},
		{name: "missing dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: "database DSN"},
		{name: "page size", mutate: func(c *Config) { c.GitHub.PerPage = 500 }, wantErr: "page size"},
		{name: "commit limit", mutate: func(c *Config) { c.Changelog.MaxCommits = 0 }, wantErr: "commit limit"},
		{name: "highlight limit", mutate: func(c *Config) { c.Changelog.MaxHighlights = 0 }, wantErr: "highlight limit"},
		{name: "list limit", mutate: func(c *Config) { c.Changelog.ListLimit = 0 }, wantErr: "list limit"},
		{name: "rate limit", mutate: func(c *Config) { c.Security.RateLimitPerMinute = 0 }, wantErr: "rate limit"},
		{name: "insecure key", mutate: func(c *Config) { c.Security.APIKeys = []string{"short"} }, wantErr: "insecure"},
		{
			name:    "whatsapp without recipient",
			mutate:  func(c *Config) { c.WhatsApp = WhatsAppConfig{Enabled: true, DSN: "file:wa.db"} },
			wantErr: "recipient",
		},
		{
			name: "whatsapp configured",
			mutate: func(c *Config) {
				c.WhatsApp = WhatsAppConfig{Enabled: true, DSN: "file:wa.db", Recipient: "1234567890@s.whatsapp.net"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
