package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config is the subset of the application config the uploader needs.
type S3Config struct {
	Bucket        string
	Region        string
	BaseEndpoint  string
	PublicBaseURL string
	AccessKey     string
	SecretKey     string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Uploader uploads data: URIs and leaves every other reference untouched.
type S3Uploader struct {
	cfg    S3Config
	client objectPutter
	logger logging.Logger
}

// NewS3Uploader builds a client with static credentials against
// cfg.BaseEndpoint using path-style addressing (MinIO compatible).
func NewS3Uploader(ctx context.Context, cfg S3Config, logger logging.Logger) (*S3Uploader, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{cfg: cfg, client: client, logger: logger.With("module", "media")}, nil
}

// Resolve returns images with every data: URI replaced by the public URL of
// the uploaded object. Order is preserved.
func (u *S3Uploader) Resolve(ctx context.Context, images []string) ([]string, error) {
	out := make([]string, len(images))
	for i, ref := range images {
		if !IsDataURI(ref) {
			out[i] = ref
			continue
		}

		url, err := u.upload(ctx, ref)
		if err != nil {
			return nil, err
		}
		out[i] = url
	}
	return out, nil
}

func (u *S3Uploader) upload(ctx context.Context, ref string) (string, error) {
	mime, data, err := ParseDataURI(ref)
	if err != nil {
		return "", err
	}

	key := storageKey(mime)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mime),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	u.logger.Debug(ctx, "image uploaded", "key", key, "bytes", len(data))
	return strings.TrimSuffix(u.cfg.PublicBaseURL, "/") + "/" + key, nil
}
