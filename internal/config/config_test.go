package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ranktracker/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "TIMEZONE", "SERP_DEPTH", "COMPARATOR_INTERVAL", "ENABLE_COMPARATOR_JOB", "PINGBACK_URL", "OIDC_ISSUER"} {
		t.Setenv(key, "")
	}
	t.Setenv("BASE_URL", "https://tracker.example.com/")
	t.Setenv("SUBMIT_CONCURRENCY", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":3000", cfg.ServerAddr)
	assert.Equal(t, "America/Bogota", cfg.Timezone)
	assert.Equal(t, 30, cfg.SERPDepth)
	assert.Equal(t, 10, cfg.SubmitConcurrency)
	assert.Equal(t, 24*time.Hour, cfg.ComparatorInterval)
	assert.False(t, cfg.EnableComparatorJob)
	assert.Equal(t, "https://tracker.example.com/rank_tracker/obtener/?id=$id&tag=$tag", cfg.PingbackURL)
	assert.False(t, cfg.IsAuthEnabled())
	assert.True(t, cfg.IsDev())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATAFORSEO_RATE_LIMIT", "2.5")
	t.Setenv("DATAFORSEO_TIMEOUT", "45s")
	t.Setenv("ENABLE_COMPARATOR_JOB", "true")
	t.Setenv("PINGBACK_URL", "https://hooks.example.com/cb?id=$id&tag=$tag")

	cfg := Load()

	assert.InDelta(t, 2.5, cfg.DataForSEORateLimit, 0.001)
	assert.Equal(t, 45*time.Second, cfg.DataForSEOTimeout)
	assert.True(t, cfg.EnableComparatorJob)
	assert.Equal(t, "https://hooks.example.com/cb?id=$id&tag=$tag", cfg.PingbackURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing credentials", func(c *Config) { c.DataForSEOPassword = "" }, true},
		{"issuer without client", func(c *Config) { c.OIDCIssuer = "https://idp.example.com" }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
		{"relative pingback", func(c *Config) { c.PingbackURL = "/rank_tracker/obtener/" }, true},
		{"tls without cert", func(c *Config) { c.TLSEnabled = true }, true},
		{"tls with cert", func(c *Config) { c.TLSEnabled, c.TLSCertFile, c.TLSKeyFile = true, "c.pem", "k.pem" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DataForSEOLogin:    "l",
				DataForSEOPassword: "p",
				Timezone:           "UTC",
				PingbackURL:        "https://rank.example.com/rank_tracker/obtener/?id=$id&tag=$tag",
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitLogger(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	require.NoError(t, InitLogger("debug", "console"))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	assert.Error(t, InitLogger("loud", "json"))
}

func TestLoadYAMLConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
defaults:
  country: CO
  coordinates: "4.60971,-74.08175"
projects:
  - id: tienda
    name: Tienda
    main_domain: tienda.com
    competitors: [a.com, b.com]
    paid_enabled: true
    keywords:
      - keyword: zapatos
        categoria: calzado
        volumen: 90
  - id: pausado
    name: Pausado
    main_domain: pausado.com
    language: English
    inactive: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadYAMLConfigFile(path)
	require.NoError(t, err)

	projects := cfg.SeedProjects()
	require.Len(t, projects, 2)

	assert.Equal(t, "Spanish", projects[0].Language)
	assert.Equal(t, "CO", projects[0].Country)
	assert.Equal(t, []string{"a.com", "b.com"}, projects[0].Competitors)
	assert.Equal(t, models.ProjectActive, projects[0].Status)
	require.Len(t, projects[0].Keywords, 1)
	assert.Equal(t, "calzado", projects[0].Keywords[0].Category)
	assert.Equal(t, 90, projects[0].Keywords[0].Volume)

	assert.Equal(t, "English", projects[1].Language)
	assert.Equal(t, models.ProjectInactive, projects[1].Status)

	assert.NotNil(t, cfg.GetProjectByID("tienda"))
	assert.Nil(t, cfg.GetProjectByID("missing"))
}

func TestLoadYAMLConfigFile_Missing(t *testing.T) {
	cfg, err := LoadYAMLConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Nil(t, cfg.SeedProjects())
}
