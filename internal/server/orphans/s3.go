package orphans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config points the reporter at an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	BaseEndpoint string
}

// S3Reporter stores each orphan as a JSON object under
// orphans/<yyyy>/<mm>/<dd>/<id>.json.
type S3Reporter struct {
	client objectPutter
	bucket string
}

func NewS3Reporter(ctx context.Context, c S3Config) (*S3Reporter, error) {
	if c.Bucket == "" {
		return nil, errors.New("orphan bucket is not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading S3 config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			// MinIO serves buckets by path, not by virtual host
			o.UsePathStyle = true
		}
	})

	return &S3Reporter{client: client, bucket: c.Bucket}, nil
}

// ObjectKey returns the bucket key an orphan is stored under.
func ObjectKey(o Orphan) string {
	d := o.DetectedAt.UTC()
	return fmt.Sprintf("orphans/%04d/%02d/%02d/%s.json", d.Year(), int(d.Month()), d.Day(), o.ID)
}

func (r *S3Reporter) Report(ctx context.Context, o Orphan) error {
	body, err := json.Marshal(o)
	if err != nil {
		return err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(ObjectKey(o)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("storing orphan report: %w", err)
	}
	return nil
}
