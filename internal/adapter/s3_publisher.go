package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"gopkg.in/yaml.v3"
	m "gooze.dev/pkg/testimport/internal/model"
)

const defaultS3Prefix = "testimport/runs"

// S3Config configures the S3 result publisher.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	Region          string `mapstructure:"region"`
	EndpointURL     string `mapstructure:"endpoint_url"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	StorageClass    string `mapstructure:"storage_class"`
}

// Enabled reports whether a bucket is configured.
func (c S3Config) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

// ResultPublisher uploads a run result to remote storage.
type ResultPublisher interface {
	Publish(ctx context.Context, result m.StoredResult) (string, error)
}

// s3API is the subset of the S3 client the publisher needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ ResultPublisher = (*s3Publisher)(nil)

type s3Publisher struct {
	cfg    S3Config
	client s3API
}

// NewS3Publisher creates a ResultPublisher for S3-compatible storage.
func NewS3Publisher(cfg S3Config) ResultPublisher {
	opts := []func(*s3.Options){
		func(o *s3.Options) {
			if cfg.Region != "" {
				o.Region = cfg.Region
			} else {
				o.Region = "us-east-1"
			}

			if cfg.EndpointURL != "" {
				o.BaseEndpoint = aws.String(cfg.EndpointURL)
			}

			if cfg.ForcePathStyle {
				o.UsePathStyle = true
			}

			if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
				o.Credentials = credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID, cfg.SecretAccessKey, "",
				)
			}
		},
	}

	return &s3Publisher{
		cfg:    cfg,
		client: s3.New(s3.Options{}, opts...),
	}
}

// Publish uploads the result document and returns its s3:// location.
func (p *s3Publisher) Publish(ctx context.Context, result m.StoredResult) (string, error) {
	data, err := yaml.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	key := p.resolveKey(result)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/yaml"),
	}

	if p.cfg.StorageClass != "" {
		input.StorageClass = s3types.StorageClass(p.cfg.StorageClass)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		slog.Error("Failed to upload result", "bucket", p.cfg.Bucket, "key", key, "error", err)
		return "", fmt.Errorf("PutObject: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", p.cfg.Bucket, key)
	slog.Info("Uploaded result", "location", location)

	return location, nil
}

// resolveKey builds <prefix>/<run id>[/shard_<i>]/testimport-result.yaml.
func (p *s3Publisher) resolveKey(result m.StoredResult) string {
	prefix := p.cfg.Prefix
	if prefix == "" {
		prefix = defaultS3Prefix
	}

	parts := []string{strings.Trim(prefix, "/"), result.RunID}
	if result.Shard != "" {
		index, _, _ := strings.Cut(result.Shard, "/")
		parts = append(parts, ShardDirPrefix+index)
	}

	return strings.Join(append(parts, ResultFileName), "/")
}
