package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"venus/internal/apperr"
	"venus/internal/models"
	"venus/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUploader struct {
	keys []string
	err  error
}

func (u *fakeUploader) Upload(_ context.Context, body io.Reader, key, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	u.keys = append(u.keys, key+"|"+contentType)
	return "https://cdn.example/" + key, nil
}

type fakePhotos struct{ photos []models.Photo }

func (f *fakePhotos) Create(p *models.Photo) error {
	p.ID = "photo-" + p.UserID
	f.photos = append(f.photos, *p)
	return nil
}

func (f *fakePhotos) ListByUserID(userID string) ([]models.Photo, error) {
	var out []models.Photo
	for _, p := range f.photos {
		if p.UserID == userID && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotos) Deactivate(id, userID string) error {
	for i := range f.photos {
		if f.photos[i].ID == id && f.photos[i].UserID == userID {
			f.photos[i].Active = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func TestPhotoUpload(t *testing.T) {
	up := &fakeUploader{}
	photos := &fakePhotos{}
	svc := NewPhotoService(photos, up, "venus/photos", 1)

	p, err := svc.Upload(context.Background(), "user-1", "Me.JPG", 4, strings.NewReader("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.PhotoURL, "https://cdn.example/venus/photos/user-1/img_"))
	require.Len(t, up.keys, 1)
	assert.True(t, strings.HasSuffix(up.keys[0], ".jpg|image/jpeg"))

	list, err := svc.List("user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(p.ID, "user-1"))
	list, err = svc.List("user-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.True(t, errors.Is(svc.Delete(p.ID, "user-2"), apperr.ErrNotFound))
}

func TestPhotoUploadRejectsBadFiles(t *testing.T) {
	up := &fakeUploader{}
	svc := NewPhotoService(&fakePhotos{}, up, "venus/photos", 1)

	_, err := svc.Upload(context.Background(), "user-1", "doc.pdf", 10, strings.NewReader("x"))
	assert.True(t, errors.Is(err, apperr.ErrFormat))
	assert.True(t, errors.Is(err, storage.ErrUnsupportedType))

	_, err = svc.Upload(context.Background(), "user-1", "big.png", 2<<20, strings.NewReader("x"))
	assert.True(t, errors.Is(err, apperr.ErrFormat))
	assert.True(t, errors.Is(err, storage.ErrTooLarge))
	assert.Empty(t, up.keys)

	up.err = errors.New("cloud down")
	_, err = svc.Upload(context.Background(), "user-1", "ok.gif", 10, strings.NewReader("x"))
	assert.True(t, errors.Is(err, apperr.ErrGateway))
}

type fakeMatches struct{ rows map[string]models.Match }

func (f *fakeMatches) Upsert(m *models.Match) (*models.Match, error) {
	key := m.MyID + "|" + m.PartnerID + "|" + m.ThreadID
	if existing, ok := f.rows[key]; ok {
		m.ID = existing.ID
		if m.LastMessage == nil {
			m.LastMessage, m.LastMessageDate, m.SentBy = existing.LastMessage, existing.LastMessageDate, existing.SentBy
		}
	} else {
		m.ID = "match-" + key
	}
	f.rows[key] = *m
	out := *m
	return &out, nil
}

func (f *fakeMatches) ListForUser(userID string) ([]models.Match, error) {
	var out []models.Match
	for _, m := range f.rows {
		if m.MyID == userID || m.PartnerID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestSaveMatch(t *testing.T) {
	const (
		me      = "0b9f6a4e-3c1d-4f5e-9a7b-2c8d1e0f3a4b"
		partner = "7d2e1f0a-5b4c-4a3d-8e9f-1a2b3c4d5e6f"
		thread  = "c3a1e2d4-6f5b-4c7a-9d8e-0f1a2b3c4d5e"
	)
	svc := NewMatchService(&fakeMatches{rows: map[string]models.Match{}})
	svc.now = func() time.Time { return discoveryNow }

	_, err := svc.Save(me, MatchInput{PartnerID: me, ThreadID: thread})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.Save(me, MatchInput{PartnerID: "not-a-uuid", ThreadID: thread})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	first, err := svc.Save(me, MatchInput{PartnerID: partner, ThreadID: thread})
	require.NoError(t, err)
	assert.Nil(t, first.LastMessage)

	msg := "See you at 7"
	second, err := svc.Save(me, MatchInput{PartnerID: partner, ThreadID: thread, LastMessage: &msg})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.SentBy)
	assert.Equal(t, me, *second.SentBy)
	assert.Equal(t, discoveryNow, *second.LastMessageDate)

	list, err := svc.List(partner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
