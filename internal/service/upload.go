package service

import (
	"context"
	"fmt"

	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

// Upload hands out presigned PUT URLs for direct-to-bucket uploads.
type Upload struct {
	presigner model.Presigner
	logger    *logger.Logger
}

func NewUpload(presigner model.Presigner, logger *logger.Logger) *Upload {
	return &Upload{presigner: presigner, logger: logger}
}

// Presign validates params and signs a PUT URL for the object key.
// A zero Expiry means model.DefaultPresignExpiry.
func (u *Upload) Presign(ctx context.Context, params model.PresignParams) (model.PresignedUpload, error) {
	if params.Key == "" {
		return model.PresignedUpload{}, fmt.Errorf("%w: key is required", model.ErrInvalidArgument)
	}
	if params.ContentType == "" {
		return model.PresignedUpload{}, fmt.Errorf("%w: contentType is required", model.ErrInvalidArgument)
	}

	expiry := params.Expiry
	if expiry == 0 {
		expiry = model.DefaultPresignExpiry
	}
	if expiry < 0 || expiry > model.MaxPresignExpiry {
		return model.PresignedUpload{}, fmt.Errorf("%w: expiry must be within (0, %s]", model.ErrInvalidArgument, model.MaxPresignExpiry)
	}

	url, err := u.presigner.PresignPut(ctx, params.Key, params.ContentType, expiry)
	if err != nil {
		u.logger.Error("Upload service: failed to presign",
			"key", params.Key,
			"error", err.Error())
		return model.PresignedUpload{}, fmt.Errorf("failed to presign upload: %w", err)
	}

	u.logger.Debug("Upload service: presigned upload",
		"key", params.Key,
		"content_type", params.ContentType,
		"expiry", expiry)

	return model.PresignedUpload{
		URL:    url,
		Key:    params.Key,
		Bucket: u.presigner.Bucket(),
		Region: u.presigner.Region(),
	}, nil
}
