package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUnknownCategory = errors.New("unknown document category")

var validCategories = map[string]bool{
	CategoryPackageImage:    true,
	CategoryInsurancePolicy: true,
	CategoryDeclaration:     true,
	CategoryOther:           true,
}

// Service coordinates document uploads and tracks their attachment records.
type Service struct {
	Driver StorageDriver
	db     *gorm.DB
}

func NewService(driver StorageDriver, db *gorm.DB) *Service {
	return &Service{Driver: driver, db: db}
}

// Upload stores the incoming document under its category and records an
// unbound attachment for it.
func (s *Service) Upload(ctx context.Context, category, filename string, reader io.Reader, size int64, mime string) (*Attachment, error) {
	if !validCategories[category] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", category, uuid.New(), ext)

	if err := s.Driver.Save(ctx, key, reader, mime); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.Driver.GenerateURL(ctx, key, 0)
	if err != nil {
		if delErr := s.Driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned file", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	attachment := &Attachment{
		Key:      key,
		Name:     filename,
		Category: category,
		MimeType: mime,
		Size:     size,
		URL:      url,
	}
	if err := s.db.WithContext(ctx).Create(attachment).Error; err != nil {
		if delErr := s.Driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned file", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	slog.InfoContext(ctx, "Document uploaded", "key", key, "category", category)
	return attachment, nil
}

// Download retrieves the document content and its MIME type.
func (s *Service) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.Driver.Get(ctx, key)
}

// Finalize binds previously uploaded attachments to a booking reference.
// Unknown keys fail the whole batch so a submitted booking never points at
// documents that were never stored.
func (s *Service) Finalize(ctx context.Context, bookingReference string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if bookingReference == "" {
		return fmt.Errorf("booking reference cannot be empty")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Attachment{}).
			Where("key IN ?", keys).
			Updates(map[string]any{
				"booking_reference": bookingReference,
				"finalized":         true,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to finalize attachments: %w", result.Error)
		}
		if result.RowsAffected != int64(len(keys)) {
			return fmt.Errorf("finalized %d of %d attachments for %s", result.RowsAffected, len(keys), bookingReference)
		}
		return nil
	})
}

// ListForBooking returns the attachments bound to a booking reference.
func (s *Service) ListForBooking(ctx context.Context, bookingReference string) ([]Attachment, error) {
	var attachments []Attachment
	err := s.db.WithContext(ctx).
		Where("booking_reference = ? AND finalized = true", bookingReference).
		Order("created_at").
		Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}
