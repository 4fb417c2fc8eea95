package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fwowebserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("FWO_MODE", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 800, cfg.Charts.Width)
	assert.Equal(t, 60.0, cfg.Charts.Limits.WasteByType)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
mode: production
api_base_url: http://forecast.local
request_timeout: 5s
locations: [Exactum, Chemicum]
max_date: "2024-12-31"
auth:
  client_id_production: prod-id
  client_id_development: dev-id
  authority: https://login.example.org/tenant
  uri_production: https://app.example.org/fwowebserver
charts:
  limits:
    occupancy: 300
`)
	t.Setenv("FWO_MODE", "")
	t.Setenv("FWO_API_BASE_URL", "http://override.local")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override.local", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 300.0, cfg.Charts.Limits.Occupancy)
	// unspecified nested values keep their defaults
	assert.Equal(t, 1000.0, cfg.Charts.Limits.CO2)

	set, err := cfg.LocationSet()
	require.NoError(t, err)
	assert.Equal(t, []models.Location{models.LocationExactum, models.LocationChemicum}, set.List())

	policy, err := cfg.DatePolicy()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), policy.Horizon)

	auth := cfg.AuthVariant()
	assert.Equal(t, AuthConfig{
		ClientID:              "prod-id",
		Authority:             "https://login.example.org/tenant",
		RedirectURI:           "https://app.example.org/fwowebserver",
		PostLogoutRedirectURI: "/fwowebserver",
	}, auth)
}

func TestAuthVariant_Development(t *testing.T) {
	cfg := Default()
	cfg.Auth = AuthSettings{
		ClientIDDevelopment: "dev-id",
		ClientIDProduction:  "prod-id",
		URIDevelopment:      "http://localhost:5173",
	}

	auth := cfg.AuthVariant()
	assert.Equal(t, "dev-id", auth.ClientID)
	assert.Equal(t, "http://localhost:5173", auth.RedirectURI)
	assert.Equal(t, "/", auth.PostLogoutRedirectURI)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "staging" }},
		{"empty base url", func(c *Config) { c.APIBaseURL = "" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"unknown location", func(c *Config) { c.Locations = []string{"Kumpula"} }},
		{"bad horizon", func(c *Config) { c.MaxDate = "31.12.2024" }},
		{"auth without secret", func(c *Config) { c.Auth.Required = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestApplyEnv_TimeoutAndLocations(t *testing.T) {
	env := map[string]string{
		"FWO_REQUEST_TIMEOUT": "12s",
		"FWO_LOCATIONS":       "Physicum",
		"FWO_JWT_SECRET":      "s3cret",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"Physicum"}, cfg.Locations)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}
