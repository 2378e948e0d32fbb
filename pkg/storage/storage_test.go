package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	const mb = 1 << 20
	ext, ct, err := ValidateImage("Selfie.JPG", 2*mb, 10*mb)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)
	assert.Equal(t, "image/jpeg", ct)

	for _, name := range []string{"a.png", "b.jpeg", "c.gif"} {
		_, _, err := ValidateImage(name, 1, 10*mb)
		assert.NoError(t, err, name)
	}

	_, _, err = ValidateImage("doc.pdf", 1, 10*mb)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, _, err = ValidateImage("noext", 1, 10*mb)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, _, err = ValidateImage("big.png", 10*mb+1, 10*mb)
	assert.ErrorIs(t, err, ErrTooLarge)
	_, _, err = ValidateImage("empty.png", 0, 10*mb)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "venus/photos/u1/abc.png", ObjectKey("/venus/photos/", "u1", "abc", ".png"))
}

func TestS3UploaderURL(t *testing.T) {
	up, err := NewS3Uploader(Config{Endpoint: "https://acc.r2.cloudflarestorage.com/", Region: "auto", Bucket: "photos"})
	require.NoError(t, err)
	assert.Equal(t, "https://acc.r2.cloudflarestorage.com/photos/u1/a.png", up.URL("u1/a.png"))

	up, err = NewS3Uploader(Config{Region: "eu-west-1", Bucket: "photos", BaseURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/u1/a.png", up.URL("/u1/a.png"))

	_, err = NewS3Uploader(Config{Region: "eu-west-1"})
	assert.Error(t, err)
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(Config{Type: "ftp"})
	assert.Error(t, err)
}
