package uploader

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/philharmonia/harmony/internal/common"
	"github.com/philharmonia/harmony/internal/flagx"
	"github.com/philharmonia/harmony/internal/r2"
)

const (
	DefaultBucket    = "phil-harmony"
	DefaultImagesDir = "./images"
)

// Config holds the uploader settings.
//
// Fields:
//   - AccountID / AccessKeyID / SecretAccessKey: R2 account and API token.
//   - Bucket: destination bucket, created when missing.
//   - ImagesDir: local root whose files are uploaded.
//   - PublicURL: public base URL printed for uploaded objects; derived from
//     the account id when empty.
//   - Endpoint: S3 API endpoint override; derived from the account id when empty.
//   - LogFormat / Debug: diagnostics written to stderr.
type Config struct {
	AccountID       string         `env:"R2_ACCOUNT_ID" json:"account_id" yaml:"account_id"`
	AccessKeyID     string         `env:"R2_ACCESS_KEY_ID" json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string         `env:"R2_SECRET_ACCESS_KEY" json:"secret_access_key" yaml:"secret_access_key"`
	Bucket          string         `env:"R2_BUCKET_NAME" json:"bucket" yaml:"bucket"`
	ImagesDir       string         `env:"R2_IMAGES_DIR" json:"images_dir" yaml:"images_dir"`
	PublicURL       string         `env:"R2_PUBLIC_URL" json:"public_url" yaml:"public_url"`
	Endpoint        string         `env:"R2_ENDPOINT" json:"endpoint" yaml:"endpoint"`
	LogFormat       string         `env:"LOG_FORMAT" json:"log_format" yaml:"log_format"`
	Debug           flagx.TrueOnly `env:"DEBUG" json:"debug" yaml:"debug"`
}

// LoadDefaults sets the built-in bucket and images directory.
func (c *Config) LoadDefaults() {
	c.Bucket = DefaultBucket
	c.ImagesDir = DefaultImagesDir
	c.LogFormat = "text"
}

// Credentials returns the R2 credentials part of the config.
func (c *Config) Credentials() r2.Credentials {
	return r2.Credentials{
		AccountID:       c.AccountID,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
	}
}

// PublicBaseURL returns PublicURL or the r2.dev URL of the account.
func (c *Config) PublicBaseURL() string {
	if c.PublicURL != "" {
		return c.PublicURL
	}
	return r2.PublicDevURL(c.AccountID)
}

// Validate checks that credentials and bucket are present.
func (c *Config) Validate() error {
	var missing []string
	if c.AccountID == "" {
		missing = append(missing, common.EnvR2AccountID)
	}
	if c.AccessKeyID == "" {
		missing = append(missing, common.EnvR2AccessKeyID)
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, common.EnvR2SecretAccessKey)
	}
	if c.Bucket == "" {
		missing = append(missing, common.EnvR2BucketName)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", common.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

var loadDotEnv = func() error { return godotenv.Load() }

// LoadConfig builds a Config from defaults, an optional .env file, an
// optional JSON/YAML file (-c), command-line flags and the environment, in
// that order.
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
	return cfg, nil
}

func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.merge(&fc)
	return nil
}

// parseFlags applies the uploader flags found in args.
//
//	-a string   R2 account id
//	-k string   access key id
//	-s string   secret access key
//	-b string   bucket name
//	-i string   local images directory
//	-u string   public base URL
//	-e string   S3 endpoint override
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-s", "-b", "-i", "-u", "-e"})

	fs := flag.NewFlagSet("uploader", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.AccountID, "a", cfg.AccountID, "R2 account id")
	fs.StringVar(&cfg.AccessKeyID, "k", cfg.AccessKeyID, "R2 access key id")
	fs.StringVar(&cfg.SecretAccessKey, "s", cfg.SecretAccessKey, "R2 secret access key")
	fs.StringVar(&cfg.Bucket, "b", cfg.Bucket, "bucket name")
	fs.StringVar(&cfg.ImagesDir, "i", cfg.ImagesDir, "local directory to upload")
	fs.StringVar(&cfg.PublicURL, "u", cfg.PublicURL, "public base URL")
	fs.StringVar(&cfg.Endpoint, "e", cfg.Endpoint, "S3 endpoint override")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

func parseEnv(cfg *Config) error {
	var ec Config
	if err := flagx.ParseEnv(&ec); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.merge(&ec)
	if os.Getenv("DEBUG") != "" {
		cfg.Debug = ec.Debug
	}
	return nil
}

// merge copies the non-zero fields of src into c.
func (c *Config) merge(src *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.AccountID, src.AccountID)
	set(&c.AccessKeyID, src.AccessKeyID)
	set(&c.SecretAccessKey, src.SecretAccessKey)
	set(&c.Bucket, src.Bucket)
	set(&c.ImagesDir, src.ImagesDir)
	set(&c.PublicURL, src.PublicURL)
	set(&c.Endpoint, src.Endpoint)
	set(&c.LogFormat, src.LogFormat)
}

// checkInputDir verifies that dir exists and is a directory.
func checkInputDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s (create it and put files in it)", common.ErrMissingInputDir, dir)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", common.ErrMissingInputDir, dir)
	}
	return nil
}
