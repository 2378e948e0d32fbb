package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Eager transformation applied on upload: auto quality/format, 800px fill.
const imageEager = "q_auto,f_auto,w_800,c_fill"

var eagerAsyncFalse = false

// CloudinaryUploader stores photos on Cloudinary.
type CloudinaryUploader struct {
	cloudName string
	uploader  *uploader.API
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cloudName: cloudName, uploader: up}, nil
}

// Upload sends body under key; the folder is key's directory and the public ID its base name.
func (c *CloudinaryUploader) Upload(ctx context.Context, body io.Reader, key, _ string) (string, error) {
	folder, file := path.Split(key)
	result, err := c.uploader.Upload(ctx, body, uploader.UploadParams{
		Folder:     strings.TrimSuffix(folder, "/"),
		PublicID:   strings.TrimSuffix(file, path.Ext(file)),
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", &UploadError{Provider: "cloudinary", Message: result.Error.Message}
	}
	return result.SecureURL, nil
}

type UploadError struct {
	Provider string
	Message  string
}

func (e *UploadError) Error() string { return e.Provider + " upload: " + e.Message }
