package model

import (
	"context"
	"time"
)

const (
	// DefaultPresignExpiry applies when the caller does not ask for one.
	DefaultPresignExpiry = 60 * time.Second
	// MaxPresignExpiry is the longest lifetime a presigned URL may have.
	MaxPresignExpiry = 3600 * time.Second
)

// Presigner issues signed object-storage upload URLs.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	Bucket() string
	Region() string
}

// PresignParams describes a requested upload.
type PresignParams struct {
	Key         string
	ContentType string
	Expiry      time.Duration
}

// PresignedUpload is a signed PUT URL plus the location it points at.
type PresignedUpload struct {
	URL    string
	Key    string
	Bucket string
	Region string
}
