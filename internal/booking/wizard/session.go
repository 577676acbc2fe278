package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

// Session is the persisted wizard aggregate. Exactly one active session owns
// a snapshot; there are no concurrent writers.
type Session struct {
	model.BaseModel
	Snapshot  Snapshot `gorm:"type:jsonb;column:snapshot;serializer:json;not null" json:"snapshot"`
	Submitted bool     `gorm:"column:submitted;not null;default:false" json:"submitted"`
}

func (s *Session) TableName() string {
	return "wizard_sessions"
}

// SessionService stores wizard sessions and routes actions into them.
type SessionService struct {
	db        *gorm.DB
	submitter *Submitter
}

func NewSessionService(db *gorm.DB, submitter *Submitter) *SessionService {
	return &SessionService{db: db, submitter: submitter}
}

// Create starts a new session with the default snapshot.
func (s *SessionService) Create(ctx context.Context) (*Session, error) {
	session := &Session{Snapshot: NewSnapshot()}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create wizard session: %w", err)
	}
	return session, nil
}

// Get loads a session by ID.
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	var session Session
	result := s.db.WithContext(ctx).First(&session, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wizard session %s: %w", id, model.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to load wizard session: %w", result.Error)
	}
	return &session, nil
}

// Apply reduces an action into the stored snapshot.
func (s *SessionService) Apply(ctx context.Context, id uuid.UUID, action Action) (*Session, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.Apply(action) })
}

// Next advances the stored session one step.
func (s *SessionService) Next(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.Next() })
}

// Previous moves the stored session one step back.
func (s *SessionService) Previous(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.Previous() })
}

// Reset returns a session to the default snapshot for a fresh booking.
func (s *SessionService) Reset(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Snapshot = NewSnapshot()
	session.Submitted = false
	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to reset wizard session: %w", err)
	}
	return session, nil
}

// Submit runs the submission pipeline for the stored session. On failure the
// snapshot is left untouched so the caller remains on the same step.
func (s *SessionService) Submit(ctx context.Context, id uuid.UUID) (*model.BookingResult, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return nil, fmt.Errorf("wizard session %s already submitted", id)
	}

	w := Restore(session.Snapshot)
	result, err := s.submitter.Submit(ctx, w)
	if err != nil {
		return nil, err
	}

	session.Snapshot = w.Snapshot()
	session.Submitted = true
	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to persist submitted session: %w", err)
	}
	return result, nil
}

func (s *SessionService) mutate(ctx context.Context, id uuid.UUID, fn func(*Wizard) error) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	w := Restore(session.Snapshot)
	if err := fn(w); err != nil {
		return nil, err
	}
	session.Snapshot = w.Snapshot()
	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to persist wizard session: %w", err)
	}
	return session, nil
}

// DecodeAction turns a wire action {type, payload} into its typed variant.
func DecodeAction(actionType string, payload json.RawMessage) (Action, error) {
	decode := func(dst any) error {
		if len(payload) == 0 {
			return nil
		}
		if err := json.Unmarshal(payload, dst); err != nil {
			return fmt.Errorf("invalid %s payload: %w", actionType, err)
		}
		return nil
	}

	switch actionType {
	case "submitServiceability":
		var a SubmitServiceability
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case "submitOrigin":
		var a SubmitOrigin
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case "submitDestination":
		var a SubmitDestination
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case "submitShipment":
		var a SubmitShipment
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case "submitMaterial":
		var a SubmitMaterial
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case "submitUpload":
		var a SubmitUpload
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case "submitBill":
		var a SubmitBill
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case "submitDetails":
		var a SubmitDetails
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case "submitPayment":
		var a SubmitPayment
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", actionType)
	}
}
