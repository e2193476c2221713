// Package testutil provides shared test doubles and fixtures.
package testutil

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"testing"

	migration "foodgram/cmd/database/migrate"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PNGDataURI is a 1x1 transparent PNG.
const PNGDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

const publicBase = "https://media.test/"

// NewTestDB opens a private in-memory SQLite database with every table migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migration.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// ImageStoreStub keeps uploads in memory.
type ImageStoreStub struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
	// DeleteErr, when set, fails every DeleteFile call after recording it.
	DeleteErr error
}

func NewImageStoreStub() *ImageStoreStub {
	return &ImageStoreStub{Objects: make(map[string][]byte)}
}

var _ storage.ImageStore = (*ImageStoreStub)(nil)

func (s *ImageStoreStub) UploadBase64(_ context.Context, payload string, folder string) (string, error) {
	img, err := storage.DecodeBase64Image(payload)
	if err != nil {
		return "", err
	}
	key := path.Join(folder, uuid.NewString()+img.Extension)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = img.Data
	return key, nil
}

func (s *ImageStoreStub) DeleteFile(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, objectKey)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Objects, objectKey)
	return nil
}

func (s *ImageStoreStub) GetPublicLinkKey(objectKey string) string {
	return publicBase + objectKey
}

func (s *ImageStoreStub) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, publicBase) {
		return ""
	}
	return strings.TrimPrefix(link, publicBase)
}

func (s *ImageStoreStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}

// SentMail is one message captured by MailerStub.
type SentMail struct {
	To          string
	Subject     string
	Body        string
	Attachments []mailing.Attachment
}

// MailerStub records messages instead of sending them.
type MailerStub struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

var _ mailing.Mailer = (*MailerStub)(nil)

func (m *MailerStub) SendMail(toEmail string, subject string, body string, attachments ...mailing.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: toEmail, Subject: subject, Body: body, Attachments: attachments})
	return nil
}
