// Package config builds the server settings once at startup. Values are
// layered as defaults, .env, an optional JSON/YAML file, command-line flags
// and the environment; the deployment mode is then resolved and every
// mode-dependent setting is taken from that mode's Profile.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/philharmonia/harmony/internal/common"
	"github.com/philharmonia/harmony/internal/flagx"
	"github.com/philharmonia/harmony/internal/r2"
	"github.com/philharmonia/harmony/internal/timex"
)

// MediaBackend selects where uploaded media lives.
type MediaBackend string

const (
	MediaLocal MediaBackend = "local"
	MediaR2    MediaBackend = "r2"
)

// Media describes the resolved media storage.
type Media struct {
	Backend     MediaBackend
	Root        string
	PublicURL   string
	Bucket      string
	Endpoint    string
	Credentials r2.Credentials
}

// Superuser carries the bootstrap account values.
type Superuser struct {
	Username string
	Password string
	Email    string
}

// Missing lists the environment variables whose values are empty.
func (s Superuser) Missing() []string {
	var missing []string
	if s.Username == "" {
		missing = append(missing, common.EnvSuperuserUsername)
	}
	if s.Password == "" {
		missing = append(missing, common.EnvSuperuserPassword)
	}
	if s.Email == "" {
		missing = append(missing, common.EnvSuperuserEmail)
	}
	return missing
}

// Complete reports whether all three values are present.
func (s Superuser) Complete() bool {
	return len(s.Missing()) == 0
}

// Config holds the raw settings read from files, flags and the environment,
// plus the values resolved from them by LoadConfig.
type Config struct {
	DeployMode       string         `env:"DEPLOY_MODE" json:"deploy_mode" yaml:"deploy_mode"`
	HTTPAddr         string         `env:"SERVER_ADDRESS" json:"http_addr" yaml:"http_addr" validate:"required,hostname_port"`
	SecretKey        string         `env:"SECRET_KEY" json:"secret_key" yaml:"secret_key"`
	Debug            flagx.TrueOnly `env:"DEBUG" json:"debug" yaml:"debug"`
	ExternalHostname string         `env:"RENDER_EXTERNAL_HOSTNAME" json:"external_hostname" yaml:"external_hostname" validate:"omitempty,hostname_rfc1123"`
	DatabaseURL      string         `env:"DATABASE_URL" json:"database_url" yaml:"database_url"`
	DBConnMaxAge     timex.Duration `env:"DB_CONN_MAX_AGE" json:"db_conn_max_age" yaml:"db_conn_max_age"`

	R2AccountID       string `env:"R2_ACCOUNT_ID" json:"r2_account_id" yaml:"r2_account_id"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID" json:"r2_access_key_id" yaml:"r2_access_key_id"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY" json:"r2_secret_access_key" yaml:"r2_secret_access_key"`
	R2BucketName      string `env:"R2_BUCKET_NAME" json:"r2_bucket_name" yaml:"r2_bucket_name"`
	R2PublicURL       string `env:"R2_PUBLIC_URL" json:"r2_public_url" yaml:"r2_public_url" validate:"omitempty,url"`
	R2Endpoint        string `env:"R2_ENDPOINT" json:"r2_endpoint" yaml:"r2_endpoint" validate:"omitempty,url"`

	MediaRoot  string `env:"MEDIA_ROOT" json:"media_root" yaml:"media_root" validate:"required"`
	StaticRoot string `env:"STATIC_ROOT" json:"static_root" yaml:"static_root" validate:"required"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID" json:"google_client_id" yaml:"google_client_id"`
	GoogleSecret   string `env:"GOOGLE_SECRET" json:"google_secret" yaml:"google_secret"`

	SiteID          int            `env:"SITE_ID" json:"site_id" yaml:"site_id" validate:"gte=1"`
	TimeZone        string         `env:"TIME_ZONE" json:"time_zone" yaml:"time_zone" validate:"required,timezone"`
	LogFormat       string         `env:"LOG_FORMAT" json:"log_format" yaml:"log_format" validate:"logformat"`
	ShutdownTimeout timex.Duration `env:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout" yaml:"shutdown_timeout"`
	SetupRateLimit  int            `env:"SETUP_RATE_LIMIT" json:"setup_rate_limit" yaml:"setup_rate_limit" validate:"gte=0"`

	SuperuserUsername string `env:"DJANGO_SUPERUSER_USERNAME" json:"-" yaml:"-"`
	SuperuserPassword string `env:"DJANGO_SUPERUSER_PASSWORD" json:"-" yaml:"-"`
	SuperuserEmail    string `env:"DJANGO_SUPERUSER_EMAIL" json:"-" yaml:"-"`

	// Resolved by LoadConfig.
	Mode               Mode      `json:"-" yaml:"-"`
	Profile            Profile   `json:"-" yaml:"-"`
	AllowedHosts       []string  `json:"-" yaml:"-"`
	CSRFTrustedOrigins []string  `json:"-" yaml:"-"`
	Database           Database  `json:"-" yaml:"-"`
	Media              Media     `json:"-" yaml:"-"`
	Superuser          Superuser `json:"-" yaml:"-"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8000"
	c.DBConnMaxAge = timex.Duration{Duration: 600 * time.Second}
	c.MediaRoot = "images"
	c.StaticRoot = "staticfiles"
	c.SiteID = 1
	c.TimeZone = "Asia/Manila"
	c.LogFormat = "json"
	c.ShutdownTimeout = timex.Duration{Duration: 10 * time.Second}
	c.SetupRateLimit = 10
}

var loadDotEnv = func() error { return godotenv.Load() }

// LoadConfig builds the server Config from args and the process environment.
// A non-nil error means the process must not start.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	_ = loadDotEnv()

	if err := parseFile(cfg, flagx.ConfigFileFlag(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ModeSource names the setting that selected Mode.
func (c *Config) ModeSource() string {
	switch {
	case c.DeployMode != "":
		return "DEPLOY_MODE"
	case c.ExternalHostname != "":
		return common.EnvExternalHostname
	}
	return "default"
}

// MissingR2 lists the R2 variables that are empty. Production media stays
// local until all of them are set.
func (c *Config) MissingR2() []string {
	var missing []string
	for _, v := range []struct{ name, value string }{
		{common.EnvR2AccountID, c.R2AccountID},
		{common.EnvR2AccessKeyID, c.R2AccessKeyID},
		{common.EnvR2SecretAccessKey, c.R2SecretAccessKey},
		{common.EnvR2BucketName, c.R2BucketName},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	return missing
}

// resolve derives the mode-dependent settings.
func (c *Config) resolve() error {
	c.Mode = DetectMode(c.ExternalHostname)
	if c.DeployMode != "" {
		m, err := ParseMode(c.DeployMode)
		if err != nil {
			return err
		}
		c.Mode = m
	}
	c.Profile = c.Mode.Profile()

	if c.SecretKey == "" {
		if c.Profile.RequireSecretKey {
			return common.ErrMissingSecretKey
		}
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return fmt.Errorf("generate secret key: %w", err)
		}
		c.SecretKey = key
	}

	c.AllowedHosts = []string{"127.0.0.1", "localhost"}
	c.CSRFTrustedOrigins = nil
	if c.ExternalHostname != "" {
		c.AllowedHosts = append(c.AllowedHosts, c.ExternalHostname)
		c.CSRFTrustedOrigins = []string{"https://" + c.ExternalHostname}
	}

	db, err := ParseDatabaseURL(c.DatabaseURL, c.Profile.RequireDBSSL && c.DatabaseURL != "")
	if err != nil {
		return err
	}
	db.ConnMaxAge = c.DBConnMaxAge.Duration
	c.Database = db

	c.Media = c.resolveMedia()

	c.Superuser = Superuser{
		Username: c.SuperuserUsername,
		Password: c.SuperuserPassword,
		Email:    c.SuperuserEmail,
	}
	return nil
}

func (c *Config) resolveMedia() Media {
	creds := r2.Credentials{
		AccountID:       c.R2AccountID,
		AccessKeyID:     c.R2AccessKeyID,
		SecretAccessKey: c.R2SecretAccessKey,
	}

	if c.Profile.RemoteMedia && creds.Complete() && c.R2BucketName != "" {
		publicURL := c.R2PublicURL
		if publicURL == "" {
			publicURL = r2.PublicDevURL(c.R2AccountID)
		}
		return Media{
			Backend:     MediaR2,
			PublicURL:   publicURL,
			Bucket:      c.R2BucketName,
			Endpoint:    c.R2Endpoint,
			Credentials: creds,
		}
	}

	return Media{
		Backend: MediaLocal,
		Root:    c.MediaRoot,
	}
}
