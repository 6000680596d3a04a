package media

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	mime, data, err := ParseDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte("hello"), data)

	mime, data, err = ParseDataURI("data:,a%20b")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime)
	assert.Equal(t, []byte("a b"), data)

	mime, _, err = ParseDataURI("data:image/svg+xml;charset=utf-8,<svg/>")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", mime)

	for _, bad := range []string{"a.png", "data:image/png;base64", "data:image/png;base64,!!!"} {
		_, _, err := ParseDataURI(bad)
		assert.ErrorIs(t, err, ErrMalformedDataURI, bad)
	}
}

func TestStorageKeyLayout(t *testing.T) {
	key := storageKey("image/jpeg")
	assert.Regexp(t, regexp.MustCompile(`^products/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}\.jpg$`), key)
	assert.Equal(t, "bin", extensionFor("application/x-unknown"))
}

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, b)
	return &s3.PutObjectOutput{}, nil
}

func newTestUploader(t *testing.T, putter *fakePutter) *S3Uploader {
	t.Helper()

	origLoad, origClient, origKey := loadDefaultAWSConfig, newS3ClientFromConfig, storageKey
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, storageKey = origLoad, origClient, origKey
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	var applied s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		for _, fn := range optFns {
			fn(&applied)
		}
		assert.True(t, applied.UsePathStyle)
		assert.Equal(t, "http://minio:9000", aws.ToString(applied.BaseEndpoint))
		return putter
	}
	storageKey = func(mime string) string { return "products/2024/01/02/fixed." + extensionFor(mime) }

	u, err := NewS3Uploader(context.Background(), S3Config{
		Bucket: "pics", BaseEndpoint: "http://minio:9000", PublicBaseURL: "https://cdn.example.com/pics/",
	}, logging.Nop())
	require.NoError(t, err)
	return u
}

func TestResolve_UploadsDataURIsOnly(t *testing.T) {
	putter := &fakePutter{}
	u := newTestUploader(t, putter)

	out, err := u.Resolve(context.Background(), []string{"a.png", "data:image/png;base64,aGVsbG8="})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "https://cdn.example.com/pics/products/2024/01/02/fixed.png"}, out)

	require.Len(t, putter.inputs, 1)
	assert.Equal(t, "pics", aws.ToString(putter.inputs[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(putter.inputs[0].ContentType))
	assert.Equal(t, []byte("hello"), putter.bodies[0])
}

func TestResolve_Errors(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	u := newTestUploader(t, putter)

	_, err := u.Resolve(context.Background(), []string{"data:image/png;base64,aGVsbG8="})
	assert.ErrorContains(t, err, "access denied")

	_, err = u.Resolve(context.Background(), []string{"data:broken"})
	assert.ErrorIs(t, err, ErrMalformedDataURI)
}

func TestNewS3Uploader_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := NewS3Uploader(context.Background(), S3Config{}, logging.Nop())
	assert.ErrorContains(t, err, "no region")
}
