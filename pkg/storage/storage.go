// Package storage publishes generated ticket PDFs and hands back the URL
// clients download them from.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Uploader stores a PDF under publicID and returns its public URL.
// Uploading the same publicID again replaces the previous file.
type Uploader interface {
	UploadPDF(ctx context.Context, data []byte, publicID string) (string, error)
}

var safeID = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// LocalUploader writes PDFs to a directory served by the API itself.
// It is meant for development when no Cloudinary account is configured.
type LocalUploader struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

func NewLocalUploader(dir, baseURL string, log *zap.Logger) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalUploader{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With(zap.String("uploader", "local")),
	}, nil
}

// Dir is the directory the files are written to
func (u *LocalUploader) Dir() string {
	return u.dir
}

func (u *LocalUploader) UploadPDF(ctx context.Context, data []byte, publicID string) (string, error) {
	if !safeID.MatchString(publicID) {
		return "", fmt.Errorf("invalid public id %q", publicID)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := publicID + ".pdf"
	path := filepath.Join(u.dir, name)

	// write-then-rename so readers never see a half written file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("store pdf: %w", err)
	}

	url := u.baseURL + "/" + name
	u.log.Info("PDF stored", zap.String("public_id", publicID), zap.Int("bytes", len(data)))

	return url, nil
}
