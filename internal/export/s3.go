package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfgpkg "cob-tracker/internal/config"
	"cob-tracker/internal/model"
)

var ErrNoBucket = errors.New("S3 bucket is not configured")

// Putter is the slice of the S3 API an Uploader needs.
type Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	client Putter
	bucket string
}

func NewUploader(client Putter, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// NewS3Uploader builds a client for MinIO-style endpoints with static keys.
func NewS3Uploader(ctx context.Context, c cfgpkg.S3) (*Uploader, error) {
	if c.Bucket == "" {
		return nil, ErrNoBucket
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = true
	})
	return NewUploader(client, c.Bucket), nil
}

// Upload renders cobs in format and stores the result under key.
func (u *Uploader) Upload(ctx context.Context, key, format string, cobs []model.Cob) error {
	f, err := Normalize(format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, f, cobs); err != nil {
		return err
	}
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(ContentType(f)),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", u.bucket, key, err)
	}
	return nil
}
