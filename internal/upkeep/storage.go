package upkeep

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// LogStore wraps an S3-compatible bucket holding transcript bundles.
type LogStore struct {
	Client     *s3.Client
	BucketName string
}

// NewLogStore initializes the store from configuration values. LOG_S3_ENDPOINT
// may point at any S3-compatible service; when empty the AWS default applies.
func NewLogStore(ctx context.Context, cfg *Config) (*LogStore, error) {
	endpoint := cfg.Values["LOG_S3_ENDPOINT"]
	accessKey := cfg.Values["LOG_S3_ACCESS_KEY_ID"]
	secretKey := cfg.Values["LOG_S3_SECRET_ACCESS_KEY"]
	bucketName := cfg.Values["LOG_S3_BUCKET_NAME"]
	region := cfg.Values["LOG_S3_REGION"]
	if region == "" {
		region = "auto"
	}

	if accessKey == "" || secretKey == "" || bucketName == "" {
		return nil, fmt.Errorf("log store credentials missing in configuration (LOG_S3_ACCESS_KEY_ID, LOG_S3_SECRET_ACCESS_KEY, LOG_S3_BUCKET_NAME)")
	}

	options := []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion(region),
	}
	if Debug {
		options = append(options, config.WithClientLogMode(aws.LogSigning|aws.LogRetries|aws.LogRequest|aws.LogResponse))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load log store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &LogStore{Client: client, BucketName: bucketName}, nil
}

// Upload stores body under key.
func (l *LogStore) Upload(ctx context.Context, key string, body []byte) error {
	contentType := "application/octet-stream"
	if strings.HasSuffix(key, ".zst") {
		contentType = "application/zstd"
	}

	_, err := l.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(l.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	return err
}

// StoredBundle is the metadata for an uploaded transcript bundle.
type StoredBundle struct {
	Key  string
	Size int64
}

// List returns the bundles under prefix.
func (l *LogStore) List(ctx context.Context, prefix string) ([]StoredBundle, error) {
	var bundles []StoredBundle
	paginator := s3.NewListObjectsV2Paginator(l.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(l.BucketName),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			bundles = append(bundles, StoredBundle{Key: *obj.Key, Size: *obj.Size})
		}
	}
	return bundles, nil
}
