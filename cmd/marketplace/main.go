package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/AbdoulayeSG/site-antigravi/internal/app"
	"github.com/AbdoulayeSG/site-antigravi/internal/buildinfo"
	"github.com/AbdoulayeSG/site-antigravi/internal/carousel"
	"github.com/AbdoulayeSG/site-antigravi/internal/catalog"
	"github.com/AbdoulayeSG/site-antigravi/internal/cli"
	"github.com/AbdoulayeSG/site-antigravi/internal/config"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/media"
	"github.com/AbdoulayeSG/site-antigravi/internal/moderation"
	"github.com/AbdoulayeSG/site-antigravi/internal/session"
	"github.com/AbdoulayeSG/site-antigravi/internal/storage"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer stores.Close()

	var resolver media.Resolver
	if cfg.Backend == config.BackendRemote && cfg.S3Bucket != "" {
		u, err := media.NewS3Uploader(ctx, media.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			BaseEndpoint:  cfg.S3BaseEndpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
		}, logger)
		if err != nil {
			log.Fatalf("%v", err)
		}
		resolver = u
	}

	sess := session.NewManager(stores.Backend, stores.KV, session.AdminCredentials{
		Email:         cfg.AdminEmail,
		Password:      cfg.AdminPassword,
		TokenSecret:   []byte(cfg.AdminTokenSecret),
		TokenValidity: cfg.AdminTokenValidity,
	}, logger)

	ctrl := app.New(app.Deps{
		Session:    sess,
		Catalog:    catalog.NewService(stores.Backend, sess, resolver, logger),
		Moderation: moderation.NewService(stores.Backend, sess, logger),
		Carousel:   carousel.NewManager(stores.KV, cfg.CarouselInterval, logger),
		Logger:     logger,
		NoticeTTL:  cfg.NoticeTTL,
	})

	adminFragment := cfg.AdminPrompt || slices.Contains(os.Args[1:], "#admin")
	cli.NewApp(ctrl, os.Stdin, os.Stdout).Run(ctx, adminFragment)
}
