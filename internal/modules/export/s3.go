package export

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3Uploader ships export files to an S3 bucket under a key prefix.
type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewS3Uploader builds an uploader from the ambient AWS credential chain.
func NewS3Uploader(ctx context.Context, region, bucket, prefix string, log zerolog.Logger) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Uploader{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
		log:      log.With().Str("component", "s3-uploader").Logger(),
	}, nil
}

// Upload sends a local file to the bucket and returns the object key.
func (u *S3Uploader) Upload(ctx context.Context, localPath, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open export file %s: %w", localPath, err)
	}
	defer f.Close()

	key := path.Join(u.prefix, path.Base(localPath))
	_, err = u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3://%s/%s: %w", localPath, u.bucket, key, err)
	}

	u.log.Info().Str("bucket", u.bucket).Str("key", key).Msg("Export uploaded")
	return key, nil
}
