package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryUploader uploads PDFs as raw assets
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
	log    *zap.Logger
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string, log *zap.Logger) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryUploader{
		cld:    cld,
		folder: folder,
		log:    log.With(zap.String("uploader", "cloudinary")),
	}, nil
}

func (u *CloudinaryUploader) UploadPDF(ctx context.Context, data []byte, publicID string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:         u.folder,
		PublicID:       publicID,
		ResourceType:   "raw",
		Overwrite:      api.Bool(true),
		UniqueFilename: api.Bool(false),
	})
	if err != nil {
		u.log.Error("Cloudinary upload failed", zap.Error(err), zap.String("public_id", publicID))
		return "", fmt.Errorf("upload pdf: %w", err)
	}
	if result.Error.Message != "" {
		u.log.Error("Cloudinary rejected upload",
			zap.String("public_id", publicID),
			zap.String("reason", result.Error.Message),
		)
		return "", fmt.Errorf("upload pdf: %s", result.Error.Message)
	}

	u.log.Info("PDF uploaded",
		zap.String("public_id", result.PublicID),
		zap.String("url", result.SecureURL),
	)

	return result.SecureURL, nil
}
