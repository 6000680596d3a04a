package config

import (
	"flag"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/flagx"
)

var flagSpec = flagx.Spec{
	Valued: []string{
		"-b", "-l", "-r", "-ae", "-ap", "-as", "-at", "-ci", "-nt",
		"-sb", "-sg", "-se", "-su", "-sk", "-ss", "-ll", "-lf",
	},
	Switches: []string{"-admin"},
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-b string   backend: local | remote
//	-l string   SQLite DSN of the local store
//	-r string   PostgreSQL DSN of the remote document store
//	-ae string  admin email
//	-ap string  admin password
//	-as string  admin token secret
//	-at int     admin token validity, minutes
//	-ci int     carousel autoplay interval, seconds
//	-nt int     notice lifetime, seconds
//	-sb string  S3 bucket (empty disables image upload)
//	-sg string  S3 region
//	-se string  S3 base endpoint
//	-su string  public base URL of uploaded images
//	-sk string  S3 access key
//	-ss string  S3 secret key
//	-ll string  log level
//	-lf string  log format: text | json
//	-admin      open the admin login on start
//
// Unknown arguments are filtered out first with flagx.FilterArgs so other
// flag consumers (-c/-config) do not collide.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Backend, "b", config.Backend, "storage backend (local|remote)")
	fs.StringVar(&config.LocalDSN, "l", config.LocalDSN, "local SQLite DSN")
	fs.StringVar(&config.RemoteDSN, "r", config.RemoteDSN, "remote PostgreSQL DSN")
	fs.StringVar(&config.AdminEmail, "ae", config.AdminEmail, "admin email")
	fs.StringVar(&config.AdminPassword, "ap", config.AdminPassword, "admin password")
	fs.StringVar(&config.AdminTokenSecret, "as", config.AdminTokenSecret, "admin token secret")

	adminTokenValidity := fs.Int("at", int(config.AdminTokenValidity.Minutes()), "admin token validity (in minutes)")
	carouselInterval := fs.Int("ci", int(config.CarouselInterval.Seconds()), "carousel interval (in seconds)")
	noticeTTL := fs.Int("nt", int(config.NoticeTTL.Seconds()), "notice lifetime (in seconds)")

	fs.StringVar(&config.S3Bucket, "sb", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "sg", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "se", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicBaseURL, "su", config.S3PublicBaseURL, "public base URL of uploaded images")
	fs.StringVar(&config.S3AccessKey, "sk", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "ss", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.LogLevel, "ll", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "lf", config.LogFormat, "log format (text|json)")
	fs.BoolVar(&config.AdminPrompt, "admin", config.AdminPrompt, "open the admin login on start")

	if err := fs.Parse(flagx.FilterArgs(args, flagSpec)); err != nil {
		panic(err)
	}

	config.AdminTokenValidity = time.Duration(*adminTokenValidity) * time.Minute
	config.CarouselInterval = time.Duration(*carouselInterval) * time.Second
	config.NoticeTTL = time.Duration(*noticeTTL) * time.Second
}
