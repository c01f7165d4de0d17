package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageBucket stores image objects and returns their public URLs.
type ImageBucket interface {
	PutImage(ctx context.Context, key, contentType string, content []byte) (string, error)
}

// S3Config options for the image bucket
type S3Config struct {
	Region          string // AWS region
	Bucket          string // bucket name
	AccessKeyID     string // optional static credentials
	SecretAccessKey string
	Endpoint        string // custom endpoint for S3-compatible services
	UsePathStyle    bool   // path-style addressing, needed by most S3-compatible services
	// PublicURL is the base that object keys are appended to. When empty it
	// is derived from Endpoint or the AWS virtual-hosted bucket address.
	PublicURL string
	// KeyPrefix is prepended to every object key, e.g. "images/".
	KeyPrefix string
}

// S3Bucket is an ImageBucket backed by S3 or an S3-compatible service.
type S3Bucket struct {
	uploader *manager.Uploader
	config   S3Config
}

var _ ImageBucket = (*S3Bucket)(nil)

// NewS3Bucket creates the bucket client from cfg.
func NewS3Bucket(ctx context.Context, cfg S3Config) (*S3Bucket, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Bucket{
		uploader: manager.NewUploader(client),
		config:   cfg,
	}, nil
}

// PutImage uploads content under key and returns the object's public URL.
func (b *S3Bucket) PutImage(ctx context.Context, key, contentType string, content []byte) (string, error) {
	key = b.config.KeyPrefix + key

	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return objectURL(b.config, key)
}

// objectURL resolves the public URL of key for the configured bucket.
func objectURL(cfg S3Config, key string) (string, error) {
	switch {
	case cfg.PublicURL != "":
		return url.JoinPath(cfg.PublicURL, key)
	case cfg.Endpoint != "" && cfg.UsePathStyle:
		return url.JoinPath(cfg.Endpoint, cfg.Bucket, key)
	case cfg.Endpoint != "":
		u, err := url.Parse(cfg.Endpoint)
		if err != nil {
			return "", fmt.Errorf("invalid endpoint %q: %w", cfg.Endpoint, err)
		}
		u.Host = cfg.Bucket + "." + u.Host
		return u.JoinPath(key).String(), nil
	default:
		host := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		return url.JoinPath(host, strings.Split(key, "/")...)
	}
}
