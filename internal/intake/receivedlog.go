package intake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suraja9/ocl-services/internal/booking/model"
	"github.com/suraja9/ocl-services/utils"
)

// Scan channels. Each receiving screen writes to its own channel; the
// medicine channel is the one with an explicit clear-all.
const (
	ChannelAdmin    = "admin"
	ChannelMedicine = "medicine"
)

// recentCap bounds the in-memory recently-scanned list.
const recentCap = 50

// ReceivedEntry is one persisted row of a channel's received log.
type ReceivedEntry struct {
	model.BaseModel
	Channel           string       `gorm:"type:varchar(20);column:channel;not null;index" json:"channel"`
	OrderID           uuid.UUID    `gorm:"type:uuid;column:order_id;not null" json:"orderId"`
	ConsignmentNumber string       `gorm:"type:varchar(50);column:consignment_number;not null" json:"consignmentNumber"`
	Source            string       `gorm:"type:varchar(30);column:source;not null" json:"source"`
	Status            model.Status `gorm:"type:varchar(30);column:status;not null" json:"status"`
	OriginName        string       `gorm:"type:varchar(255);column:origin_name" json:"originName,omitempty"`
	DestinationName   string       `gorm:"type:varchar(255);column:destination_name" json:"destinationName,omitempty"`
	ScannedAt         time.Time    `gorm:"column:scanned_at;not null" json:"scannedAt"`
}

func (r *ReceivedEntry) TableName() string {
	return "received_entries"
}

// ReceivedLog keeps the per-channel received list: a persisted log plus a
// small in-memory recently-scanned list with newest entries first.
type ReceivedLog struct {
	db      *gorm.DB
	channel string

	mu     sync.Mutex
	recent []ReceivedRecord
}

func NewReceivedLog(db *gorm.DB, channel string) *ReceivedLog {
	return &ReceivedLog{db: db, channel: channel}
}

// Record prepends the scan to the recent list and persists it.
func (l *ReceivedLog) Record(ctx context.Context, rec *ReceivedRecord) error {
	l.mu.Lock()
	l.recent = append([]ReceivedRecord{*rec}, l.recent...)
	if len(l.recent) > recentCap {
		l.recent = l.recent[:recentCap]
	}
	l.mu.Unlock()

	entry := &ReceivedEntry{
		Channel:           l.channel,
		OrderID:           rec.OrderID,
		ConsignmentNumber: rec.ConsignmentNumber,
		Source:            rec.Source,
		Status:            rec.NewStatus,
		OriginName:        rec.OriginName,
		DestinationName:   rec.DestinationName,
		ScannedAt:         rec.ScannedAt,
	}
	if err := l.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to persist received entry: %w", err)
	}
	return nil
}

// Recent returns a copy of the in-memory recently-scanned list.
func (l *ReceivedLog) Recent() []ReceivedRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ReceivedRecord, len(l.recent))
	copy(out, l.recent)
	return out
}

// List pages through the persisted log, newest first.
func (l *ReceivedLog) List(ctx context.Context, offset, limit *int) ([]ReceivedEntry, error) {
	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	var entries []ReceivedEntry
	result := l.db.WithContext(ctx).
		Where("channel = ?", l.channel).
		Order("scanned_at DESC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list received entries: %w", result.Error)
	}
	return entries, nil
}

// ClearAll wipes the channel's persisted log and the recent list. Used by the
// medicine screen's clear-all action and on logout.
func (l *ReceivedLog) ClearAll(ctx context.Context) error {
	l.mu.Lock()
	l.recent = nil
	l.mu.Unlock()

	result := l.db.WithContext(ctx).Where("channel = ?", l.channel).Delete(&ReceivedEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to clear received entries: %w", result.Error)
	}
	return nil
}
