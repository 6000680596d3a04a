package config

import (
	"encoding/json"
	"os"

	"github.com/AbdoulayeSG/site-antigravi/internal/flagx"
	"github.com/AbdoulayeSG/site-antigravi/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Interval fields use
// timex.Duration so both "5s" and integer nanoseconds are accepted. Absent
// fields leave the current value untouched.
type JsonConfig struct {
	Backend            *string         `json:"backend"`
	LocalDSN           *string         `json:"local_dsn"`
	RemoteDSN          *string         `json:"remote_dsn"`
	AdminEmail         *string         `json:"admin_email"`
	AdminPassword      *string         `json:"admin_password"`
	AdminTokenSecret   *string         `json:"admin_token_secret"`
	AdminTokenValidity *timex.Duration `json:"admin_token_validity"`
	CarouselInterval   *timex.Duration `json:"carousel_interval"`
	NoticeTTL          *timex.Duration `json:"notice_ttl"`
	S3Bucket           *string         `json:"s3_bucket"`
	S3Region           *string         `json:"s3_region"`
	S3BaseEndpoint     *string         `json:"s3_base_endpoint"`
	S3PublicBaseURL    *string         `json:"s3_public_base_url"`
	S3AccessKey        *string         `json:"s3_access_key"`
	S3SecretKey        *string         `json:"s3_secret_key"`
	LogLevel           *string         `json:"log_level"`
	LogFormat          *string         `json:"log_format"`
}

// parseJson overlays values from the file named by -c/-config, if any.
// It panics when the file cannot be read or is not valid JSON.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Backend, c.Backend)
	setString(&config.LocalDSN, c.LocalDSN)
	setString(&config.RemoteDSN, c.RemoteDSN)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.AdminTokenSecret, c.AdminTokenSecret)
	if c.AdminTokenValidity != nil {
		config.AdminTokenValidity = c.AdminTokenValidity.Duration
	}
	if c.CarouselInterval != nil {
		config.CarouselInterval = c.CarouselInterval.Duration
	}
	if c.NoticeTTL != nil {
		config.NoticeTTL = c.NoticeTTL.Duration
	}
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
