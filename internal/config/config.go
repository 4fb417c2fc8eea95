package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"fwowebserver/internal/charts"
	"fwowebserver/internal/database"
	"fwowebserver/internal/export"
	"fwowebserver/internal/models"
	"fwowebserver/internal/storage"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"

	DefaultAPIBaseURL = "https://megasense-server.cs.helsinki.fi/fwowebserver"
)

// Config represents the application configuration
type Config struct {
	Mode           string        `yaml:"mode"`
	APIBaseURL     string        `yaml:"api_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	Locations      []string      `yaml:"locations"`
	MaxDate        string        `yaml:"max_date"`
	WebDir         string        `yaml:"web_dir"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthSettings   `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Charts   ChartsConfig   `yaml:"charts"`
	Export   export.Options `yaml:"export"`
	Storage  storage.Config `yaml:"storage"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// AuthSettings holds both identity provider variants. Mode picks one.
type AuthSettings struct {
	ClientIDDevelopment string `yaml:"client_id_development"`
	ClientIDProduction  string `yaml:"client_id_production"`
	Authority           string `yaml:"authority"`
	URIDevelopment      string `yaml:"uri_development"`
	URIProduction       string `yaml:"uri_production"`
	JWTSecret           string `yaml:"jwt_secret"`
	Required            bool   `yaml:"required"`
}

// AuthConfig is the variant handed to the browser client
type AuthConfig struct {
	ClientID              string `json:"client_id"`
	Authority             string `json:"authority"`
	RedirectURI           string `json:"redirect_uri"`
	PostLogoutRedirectURI string `json:"post_logout_redirect_uri"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type ChartsConfig struct {
	Width  int           `yaml:"width"`
	Height int           `yaml:"height"`
	Style  charts.Style  `yaml:"style"`
	Limits charts.Limits `yaml:"limits"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Mode:           ModeDevelopment,
		APIBaseURL:     DefaultAPIBaseURL,
		RequestTimeout: 30 * time.Second,
		CacheTTL:       6 * time.Hour,
		WebDir:         "web/dist",
		Database: DatabaseConfig{
			Driver: database.DriverSQLite,
			DSN:    "fwowebserver.db",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Charts: ChartsConfig{
			Width:  800,
			Height: 400,
			Style:  charts.DefaultStyle(),
			Limits: charts.DefaultLimits(),
		},
		Export: export.DefaultOptions(),
	}
}

// Load reads the yaml file at path on top of the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if os.Getenv("FWO_MODE") != ModeProduction {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Failed to load .env: %v", err)
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Mode, "FWO_MODE")
	set(&c.APIBaseURL, "FWO_API_BASE_URL")
	set(&c.MaxDate, "FWO_MAX_DATE")
	set(&c.WebDir, "FWO_WEB_DIR")
	set(&c.Database.Driver, "FWO_DATABASE_DRIVER")
	set(&c.Database.DSN, "FWO_DATABASE_URL")
	set(&c.Auth.ClientIDDevelopment, "FWO_CLIENT_ID_DEVELOPMENT")
	set(&c.Auth.ClientIDProduction, "FWO_CLIENT_ID_PRODUCTION")
	set(&c.Auth.Authority, "FWO_AUTHORITY")
	set(&c.Auth.URIDevelopment, "FWO_URI_DEVELOPMENT")
	set(&c.Auth.URIProduction, "FWO_URI_PRODUCTION")
	set(&c.Auth.JWTSecret, "FWO_JWT_SECRET")
	set(&c.Storage.Endpoint, "FWO_STORAGE_ENDPOINT")
	set(&c.Storage.Bucket, "FWO_STORAGE_BUCKET")
	set(&c.Storage.AccessKey, "FWO_STORAGE_ACCESS_KEY")
	set(&c.Storage.SecretKey, "FWO_STORAGE_SECRET_KEY")
	set(&c.Storage.PublicBaseURL, "FWO_STORAGE_PUBLIC_BASE_URL")

	if v := getenv("FWO_LOCATIONS"); v != "" {
		c.Locations = strings.Split(v, ",")
	}
	if v := getenv("FWO_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		} else {
			log.Printf("Ignoring FWO_REQUEST_TIMEOUT=%q: %v", v, err)
		}
	}
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Mode != ModeDevelopment && c.Mode != ModeProduction {
		return fmt.Errorf("invalid mode %q", c.Mode)
	}
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.Auth.Required && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required when auth is enforced")
	}
	if _, err := c.LocationSet(); err != nil {
		return err
	}
	if _, err := c.DatePolicy(); err != nil {
		return err
	}
	return nil
}

// IsProduction reports whether the production variant is active
func (c *Config) IsProduction() bool {
	return c.Mode == ModeProduction
}

// AuthVariant selects the identity provider settings for the current mode.
func (c *Config) AuthVariant() AuthConfig {
	if c.IsProduction() {
		return AuthConfig{
			ClientID:              c.Auth.ClientIDProduction,
			Authority:             c.Auth.Authority,
			RedirectURI:           c.Auth.URIProduction,
			PostLogoutRedirectURI: "/fwowebserver",
		}
	}
	return AuthConfig{
		ClientID:              c.Auth.ClientIDDevelopment,
		Authority:             c.Auth.Authority,
		RedirectURI:           c.Auth.URIDevelopment,
		PostLogoutRedirectURI: "/",
	}
}

// LocationSet returns the restaurants this deployment serves
func (c *Config) LocationSet() (*models.LocationSet, error) {
	return models.NewLocationSet(c.Locations)
}

// DatePolicy returns the calendar rules. An empty max_date leaves the
// horizon open.
func (c *Config) DatePolicy() (models.DatePolicy, error) {
	if c.MaxDate == "" {
		return models.DatePolicy{}, nil
	}
	horizon, err := models.ParseDate("max_date", c.MaxDate)
	if err != nil {
		return models.DatePolicy{}, err
	}
	return models.DatePolicy{Horizon: horizon}, nil
}
