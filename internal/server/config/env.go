package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. A variable
// that is unset or empty leaves the current value in place. Combined with
// godotenv in main, this lets deployments keep secrets out of flags and
// JSON files.
func parseEnv(config *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("ADDRESS", &config.Addr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("SECRET_KEY", &config.SecretKey)
	setString("ENCRYPTION_SECRET", &config.EncryptionSecret)
	setString("SMS_GATEWAY_ENDPOINT", &config.SMSGatewayEndpoint)
	setString("SMS_GATEWAY_API_KEY", &config.SMSGatewayAPIKey)
	setString("PUSH_GATEWAY_ENDPOINT", &config.PushGatewayEndpoint)
	setString("PUSH_SERVER_KEY", &config.PushServerKey)
	setString("MIN_CLIENT_VERSION", &config.MinClientVersion)
	setString("RELEASE_CLIENT_VERSION", &config.ReleaseClientVersion)
	setString("TELEGRAM_BOT_USERNAME", &config.TelegramBotUsername)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	setString("S3_APP_OBJECT_KEY", &config.S3AppObjectKey)
	setString("APP_DOWNLOAD_URL", &config.AppDownloadURL)

	if v := os.Getenv("TOKEN_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidity = d
		}
	}
	if v := os.Getenv("CODE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.CodeTTL = d
		}
	}
	if v := os.Getenv("CODE_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.CodeLength = n
		}
	}
	if v := os.Getenv("RETURN_CODE_IN_RESPONSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.ReturnCodeInResponse = b
		}
	}
}
