// Package r2 builds S3 clients and public URLs for Cloudflare R2 buckets.
package r2

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Region is the signing region R2 expects.
const Region = "auto"

// Credentials identify an R2 account and an API token pair.
type Credentials struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
}

// Complete reports whether every field is set.
func (c Credentials) Complete() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Endpoint returns the private S3 API endpoint of the account.
func Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// PublicDevURL returns the r2.dev public base URL derived from the account id.
func PublicDevURL(accountID string) string {
	prefix := accountID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("https://pub-%s.r2.dev/", prefix)
}

// ObjectURL joins a public base URL and an object key.
func ObjectURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewClient returns an S3 client bound to the account endpoint. A non-empty
// endpoint overrides the derived one, which is how tests and S3-compatible
// stand-ins are targeted.
func NewClient(ctx context.Context, creds Credentials, endpoint string) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	if endpoint == "" {
		endpoint = Endpoint(creds.AccountID)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	}), nil
}
