// Package auth resolves operator bearer tokens and guards role-scoped
// routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthService looks up operators by their bearer token.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Authenticate resolves the Authorization header value to an active
// operator. Returns ErrInvalidToken when the header is malformed or no
// active operator carries the token.
func (as *AuthService) Authenticate(ctx context.Context, authHeader string) (*Operator, error) {
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return nil, ErrInvalidToken
	}

	var operator Operator
	result := as.db.WithContext(ctx).Where("token = ? AND active = true", token).First(&operator)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.DebugContext(ctx, "operator token not found")
			return nil, ErrInvalidToken
		}
		slog.ErrorContext(ctx, "failed to fetch operator from database", "error", result.Error)
		return nil, fmt.Errorf("failed to fetch operator: %w", result.Error)
	}

	return &operator, nil
}

// CreateOperator registers a new operator account.
func (as *AuthService) CreateOperator(ctx context.Context, operator *Operator) error {
	if operator.Token == "" {
		return fmt.Errorf("operator token cannot be empty")
	}
	switch operator.Role {
	case RoleAdmin, RoleOffice, RoleMedicine:
	default:
		return fmt.Errorf("unknown operator role: %s", operator.Role)
	}

	if err := as.db.WithContext(ctx).Create(operator).Error; err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}
	slog.InfoContext(ctx, "operator created", "name", operator.Name, "role", operator.Role)
	return nil
}
