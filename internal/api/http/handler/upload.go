package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/seesakulchai/scc-api/internal/api/http/response"
	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

// UploadService signs direct-to-bucket uploads.
type UploadService interface {
	Presign(ctx context.Context, params model.PresignParams) (model.PresignedUpload, error)
}

type Upload struct {
	service UploadService
	logger  *logger.Logger
}

func NewUpload(service UploadService, logger *logger.Logger) *Upload {
	return &Upload{service: service, logger: logger}
}

type presignRequest struct {
	Key         *string  `json:"key"`
	ContentType *string  `json:"contentType"`
	// Raw so that an explicit null is told apart from an absent field.
	ExpiresIn json.RawMessage `json:"expiresIn"`
}

type presignResponse struct {
	OK     bool   `json:"ok"`
	URL    string `json:"url"`
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
}

func (in presignRequest) params() (model.PresignParams, bool) {
	if in.Key == nil || in.ContentType == nil || *in.Key == "" || *in.ContentType == "" {
		return model.PresignParams{}, false
	}

	p := model.PresignParams{Key: *in.Key, ContentType: *in.ContentType}
	if in.ExpiresIn != nil {
		var v float64
		if bytes.Equal(in.ExpiresIn, []byte("null")) || json.Unmarshal(in.ExpiresIn, &v) != nil {
			return model.PresignParams{}, false
		}
		if v != math.Trunc(v) || v <= 0 || v > model.MaxPresignExpiry.Seconds() {
			return model.PresignParams{}, false
		}
		p.Expiry = time.Duration(v) * time.Second
	}
	return p, true
}

// Presign handles POST /presign.
func (h *Upload) Presign(w http.ResponseWriter, r *http.Request) {
	var in presignRequest
	if err := decode(w, r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, response.MsgBadRequest)
		return
	}
	params, ok := in.params()
	if !ok {
		response.Fail(w, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	out, err := h.service.Presign(r.Context(), params)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, presignResponse{
		OK:     true,
		URL:    out.URL,
		Key:    out.Key,
		Bucket: out.Bucket,
		Region: out.Region,
	})
}
