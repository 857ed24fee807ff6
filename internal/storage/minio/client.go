package minio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/seesakulchai/scc-api/internal/model"
)

// minioAPI is the subset of *minio.Client the presigner needs.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PresignHeader(ctx context.Context, method, bucketName, objectName string, expires time.Duration, reqParams url.Values, extraHeaders http.Header) (*url.URL, error)
}

var _ minioAPI = (*minio.Client)(nil)

var _ model.Presigner = (*Client)(nil)

// Options describe how to reach the S3-compatible endpoint.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
}

// Client signs upload URLs for a single bucket.
type Client struct {
	api    minioAPI
	bucket string
	region string
}

// NewClient dials the endpoint described by opts and prepares the bucket.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	mc, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return NewClientWithAPI(ctx, mc, opts.Bucket, opts.Region)
}

// NewClientWithAPI allows injecting a fake API in tests.
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, region string) (*Client, error) {
	if bucket == "" {
		return nil, errors.New("bucket is not configured")
	}
	if region == "" {
		return nil, errors.New("region is not configured")
	}

	c := &Client{
		api:    api,
		bucket: bucket,
		region: region,
	}

	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region})
	if err != nil {
		// Lost a race with another instance.
		code := minio.ToErrorResponse(err).Code
		if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// PresignPut returns a URL allowing a single PUT of key with the given
// Content-Type. The content type is part of the signature.
func (c *Client) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := c.api.PresignHeader(ctx, http.MethodPut, c.bucket, key, expiry, nil, headers)
	if err != nil {
		return "", fmt.Errorf("failed to presign put: %w", err)
	}
	return u.String(), nil
}

func (c *Client) Bucket() string { return c.bucket }

func (c *Client) Region() string { return c.region }
