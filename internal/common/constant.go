package common

// Environment variable names shared by the uploader and the server.
const (
	EnvR2AccountID       = "R2_ACCOUNT_ID"
	EnvR2AccessKeyID     = "R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "R2_SECRET_ACCESS_KEY"
	EnvR2BucketName      = "R2_BUCKET_NAME"
	EnvR2PublicURL       = "R2_PUBLIC_URL"

	EnvSuperuserUsername = "DJANGO_SUPERUSER_USERNAME"
	EnvSuperuserPassword = "DJANGO_SUPERUSER_PASSWORD"
	EnvSuperuserEmail    = "DJANGO_SUPERUSER_EMAIL"

	// EnvExternalHostname is set by the hosting platform; its presence selects
	// production mode.
	EnvExternalHostname = "RENDER_EXTERNAL_HOSTNAME"
)
