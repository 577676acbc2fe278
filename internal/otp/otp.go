// Package otp issues and verifies the one-time codes used to confirm the
// consignor's phone number during booking.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

const (
	codeLength  = 6
	maxAttempts = 5
)

var (
	ErrCodeExpired     = errors.New("otp code has expired")
	ErrCodeMismatch    = errors.New("otp code does not match")
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// Code is one issued OTP. The newest unverified code per phone wins.
type Code struct {
	model.BaseModel
	Phone     string    `gorm:"type:varchar(20);column:phone;not null;index" json:"phone"`
	Code      string    `gorm:"type:varchar(10);column:code;not null" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expiresAt"`
	Attempts  int       `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Verified  bool      `gorm:"column:verified;not null;default:false" json:"verified"`
}

func (c *Code) TableName() string {
	return "otp_codes"
}

// Sender delivers the code out of band. The SMS gateway implements it; tests
// and local runs use a logging stub.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of sending them.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, phone, code string) error {
	slog.InfoContext(ctx, "otp issued", "phone", phone, "code", code)
	return nil
}

type Service struct {
	db     *gorm.DB
	sender Sender
	ttl    time.Duration
}

func NewService(db *gorm.DB, sender Sender, ttl time.Duration) *Service {
	return &Service{db: db, sender: sender, ttl: ttl}
}

// Issue generates a fresh code for the phone and hands it to the sender.
func (s *Service) Issue(ctx context.Context, phone string) (*Code, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone cannot be empty")
	}

	digits, err := randomDigits(codeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp code: %w", err)
	}

	code := &Code{
		Phone:     phone,
		Code:      digits,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(code).Error; err != nil {
		return nil, fmt.Errorf("failed to store otp code: %w", err)
	}

	if err := s.sender.Send(ctx, phone, digits); err != nil {
		return nil, fmt.Errorf("failed to send otp code: %w", err)
	}
	return code, nil
}

// Verify checks the submitted code against the newest unverified code for the
// phone. Every mismatch counts against the attempt cap.
func (s *Service) Verify(ctx context.Context, phone, submitted string) error {
	if phone == "" || submitted == "" {
		return fmt.Errorf("phone and code are required")
	}

	var code Code
	result := s.db.WithContext(ctx).
		Where("phone = ? AND verified = false", phone).
		Order("created_at DESC").
		First(&code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no pending otp for %s: %w", phone, model.ErrRecordNotFound)
		}
		return fmt.Errorf("otp lookup failed: %w", result.Error)
	}

	if code.Attempts >= maxAttempts {
		return ErrTooManyAttempts
	}
	if time.Now().UTC().After(code.ExpiresAt) {
		return ErrCodeExpired
	}
	if code.Code != submitted {
		code.Attempts++
		if err := s.db.WithContext(ctx).Save(&code).Error; err != nil {
			return fmt.Errorf("failed to record otp attempt: %w", err)
		}
		return ErrCodeMismatch
	}

	code.Verified = true
	if err := s.db.WithContext(ctx).Save(&code).Error; err != nil {
		return fmt.Errorf("failed to mark otp verified: %w", err)
	}
	return nil
}

func randomDigits(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + d.Int64())
	}
	return string(out), nil
}
