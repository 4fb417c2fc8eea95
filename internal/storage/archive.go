package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config describes an S3-compatible bucket for exported documents
type Config struct {
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
	Prefix        string `yaml:"prefix"`
}

// Enabled reports whether archiving is configured
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// ObjectPutter is the part of the S3 client the archive needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive uploads exported documents to a bucket
type Archive struct {
	client  ObjectPutter
	bucket  string
	baseURL string
	prefix  string
	now     func() time.Time
}

// Object is a stored document
type Object struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

// NewArchive builds an S3 client from cfg. A custom endpoint enables
// path-style addressing for R2 and MinIO.
func NewArchive(ctx context.Context, cfg Config) (*Archive, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewArchiveWithClient(client, cfg), nil
}

// NewArchiveWithClient uses an existing client
func NewArchiveWithClient(client ObjectPutter, cfg Config) *Archive {
	return &Archive{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		prefix:  strings.Trim(cfg.Prefix, "/"),
		now:     time.Now,
	}
}

// Store uploads a document under a fresh key and returns where it lives
func (a *Archive) Store(ctx context.Context, name, contentType string, data []byte) (*Object, error) {
	key := path.Join(a.prefix, a.now().UTC().Format("2006/01/02"), uuid.New().String()+"-"+name)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	obj := &Object{Key: key}
	if a.baseURL != "" {
		obj.URL = a.baseURL + "/" + key
	}
	return obj, nil
}
