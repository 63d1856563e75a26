package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"rightssphere/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store is a Pinner backed by an S3 bucket. The returned hash is the
// object key.
type S3Store struct {
	client  s3API
	bucket  string
	baseURL string
}

func NewS3Store(ctx context.Context, region, bucket, cdnURL string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 store: %w: S3_BUCKET is not set", ErrNotConfigured)
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3 store: load aws config: %w", err)
	}
	return newS3Store(s3.NewFromConfig(cfg), region, bucket, cdnURL), nil
}

func newS3Store(client s3API, region, bucket, cdnURL string) *S3Store {
	base := strings.TrimRight(cdnURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Store{client: client, bucket: bucket, baseURL: base}
}

func (s *S3Store) URL(key string) string {
	return s.baseURL + "/" + key
}

func (s *S3Store) PinFile(ctx context.Context, filename, contentType string, r io.Reader, meta map[string]string) (*PinResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("s3 put: read content: %w", err)
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	res, err := s.put(ctx, "recordings/"+filename, contentType, data, meta)
	metrics.PinUploads.WithLabelValues("file", metrics.Status(err)).Inc()
	return res, err
}

func (s *S3Store) PinJSON(ctx context.Context, filename string, v any, meta map[string]string) (*PinResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("s3 put: %w", err)
	}
	res, err := s.put(ctx, "cards/"+filename, "application/json", data, meta)
	metrics.PinUploads.WithLabelValues("json", metrics.Status(err)).Inc()
	return res, err
}

func (s *S3Store) put(ctx context.Context, key, contentType string, data []byte, meta map[string]string) (*PinResult, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    meta,
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: s3 put %s: %v", ErrUpstream, key, err)
	}
	return &PinResult{Hash: key, URL: s.URL(key)}, nil
}
