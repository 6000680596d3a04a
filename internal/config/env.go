package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv loads envFile into the process environment (without overriding
// variables that are already set) and then copies MARKETPLACE_* variables
// into config. A missing env file is not an error.
func parseEnv(config *Config, envFile string) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				panic(err)
			}
		}
	}

	envString(&config.Backend, "MARKETPLACE_BACKEND")
	envString(&config.LocalDSN, "MARKETPLACE_LOCAL_DSN")
	envString(&config.RemoteDSN, "MARKETPLACE_REMOTE_DSN")
	envString(&config.AdminEmail, "MARKETPLACE_ADMIN_EMAIL")
	envString(&config.AdminPassword, "MARKETPLACE_ADMIN_PASSWORD")
	envString(&config.AdminTokenSecret, "MARKETPLACE_ADMIN_TOKEN_SECRET")
	envDuration(&config.AdminTokenValidity, "MARKETPLACE_ADMIN_TOKEN_VALIDITY")
	envDuration(&config.CarouselInterval, "MARKETPLACE_CAROUSEL_INTERVAL")
	envDuration(&config.NoticeTTL, "MARKETPLACE_NOTICE_TTL")
	envString(&config.S3Bucket, "MARKETPLACE_S3_BUCKET")
	envString(&config.S3Region, "MARKETPLACE_S3_REGION")
	envString(&config.S3BaseEndpoint, "MARKETPLACE_S3_BASE_ENDPOINT")
	envString(&config.S3PublicBaseURL, "MARKETPLACE_S3_PUBLIC_BASE_URL")
	envString(&config.S3AccessKey, "MARKETPLACE_S3_ACCESS_KEY")
	envString(&config.S3SecretKey, "MARKETPLACE_S3_SECRET_KEY")
	envString(&config.LogLevel, "MARKETPLACE_LOG_LEVEL")
	envString(&config.LogFormat, "MARKETPLACE_LOG_FORMAT")

	if v, ok := os.LookupEnv("MARKETPLACE_ADMIN_PROMPT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.AdminPrompt = b
	}
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}
