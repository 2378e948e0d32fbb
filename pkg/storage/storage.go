package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("only png, jpg, jpeg and gif images are allowed")
	ErrTooLarge        = errors.New("file too large")
	ErrEmptyFile       = errors.New("file is empty")
)

var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, body io.Reader, key, contentType string) (url string, err error)
}

// Config selects and configures an Uploader.
type Config struct {
	Type string // cloudinary | s3

	CloudName string
	APIKey    string
	APISecret string

	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	BaseURL   string
}

// New builds the Uploader named by cfg.Type.
func New(cfg Config) (Uploader, error) {
	switch cfg.Type {
	case "cloudinary", "":
		return NewCloudinaryUploader(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	case "s3", "r2":
		return NewS3Uploader(cfg)
	}
	return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
}

// ValidateImage checks the extension and size of an upload and returns its content type.
func ValidateImage(filename string, size, maxBytes int64) (ext, contentType string, err error) {
	ext = strings.ToLower(path.Ext(filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return "", "", ErrUnsupportedType
	}
	if size <= 0 {
		return "", "", ErrEmptyFile
	}
	if maxBytes > 0 && size > maxBytes {
		return "", "", fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, size, maxBytes)
	}
	return ext, contentType, nil
}

// ObjectKey builds folder/userID/name+ext.
func ObjectKey(folder, userID, name, ext string) string {
	return path.Join(strings.Trim(folder, "/"), userID, name+ext)
}
