package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/carblock/internal/flagx"
	"github.com/dmitrijs2005/carblock/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "5m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	Addr                 string         `json:"addr"`
	DatabaseDSN          string         `json:"database_dsn"`
	SecretKey            string         `json:"secret_key"`
	TokenValidity        timex.Duration `json:"token_validity"`
	EncryptionSecret     string         `json:"encryption_secret"`
	CodeLength           int            `json:"code_length"`
	CodeTTL              timex.Duration `json:"code_ttl"`
	ReturnCodeInResponse bool           `json:"return_code_in_response"`
	SMSGatewayEndpoint   string         `json:"sms_gateway_endpoint"`
	SMSGatewayAPIKey     string         `json:"sms_gateway_api_key"`
	PushGatewayEndpoint  string         `json:"push_gateway_endpoint"`
	PushServerKey        string         `json:"push_server_key"`
	MinClientVersion     string         `json:"min_client_version"`
	ReleaseClientVersion string         `json:"release_client_version"`
	TelegramBotUsername  string         `json:"telegram_bot_username"`
	S3RootUser           string         `json:"s3_root_user"`
	S3RootPassword       string         `json:"s3_root_password"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint"`
	S3AppObjectKey       string         `json:"s3_app_object_key"`
	AppDownloadURL       string         `json:"app_download_url"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags. If
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults, environment
// variables, and command-line flags as part of the full configuration
// process.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.Addr = c.Addr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidity = time.Duration(c.TokenValidity.Duration)
	config.EncryptionSecret = c.EncryptionSecret
	config.CodeLength = c.CodeLength
	config.CodeTTL = time.Duration(c.CodeTTL.Duration)
	config.ReturnCodeInResponse = c.ReturnCodeInResponse
	config.SMSGatewayEndpoint = c.SMSGatewayEndpoint
	config.SMSGatewayAPIKey = c.SMSGatewayAPIKey
	config.PushGatewayEndpoint = c.PushGatewayEndpoint
	config.PushServerKey = c.PushServerKey
	config.MinClientVersion = c.MinClientVersion
	config.ReleaseClientVersion = c.ReleaseClientVersion
	config.TelegramBotUsername = c.TelegramBotUsername
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3AppObjectKey = c.S3AppObjectKey
	config.AppDownloadURL = c.AppDownloadURL
}
