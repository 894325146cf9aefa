package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

// Service owns the farm's own milk production log.
type Service interface {
	RecordProduction(ctx context.Context, input ProductionInput) (*models.ProductionEntry, error)
	ListProduction(ctx context.Context, from, to time.Time) ([]models.ProductionEntry, error)
	DeleteProduction(ctx context.Context, entryID uuid.UUID) error
	DailyTotal(ctx context.Context, date time.Time) (decimal.Decimal, error)
}

// ProductionInput carries one production log entry. CattleID may be nil for
// bulk-tank measurements.
type ProductionInput struct {
	CattleID  *uuid.UUID
	Date      time.Time
	Session   enums.MilkSession
	QuantityL decimal.Decimal
	Notes     *string
}

type service struct {
	repo Repository
}

// NewService builds the production service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordProduction(ctx context.Context, input ProductionInput) (*models.ProductionEntry, error) {
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	if !input.Session.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid session %q", input.Session))
	}
	if !input.QuantityL.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if input.CattleID != nil {
		exists, err := s.repo.CattleExists(ctx, *input.CattleID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check cattle")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cattle not found")
		}
	}

	entry := &models.ProductionEntry{
		ID:        uuid.New(),
		CattleID:  input.CattleID,
		Date:      input.Date,
		Session:   input.Session,
		QuantityL: input.QuantityL,
		Notes:     input.Notes,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert production entry")
	}
	return entry, nil
}

func (s *service) ListProduction(ctx context.Context, from, to time.Time) ([]models.ProductionEntry, error) {
	if from.IsZero() || to.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range required")
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}
	entries, err := s.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list production entries")
	}
	return entries, nil
}

func (s *service) DeleteProduction(ctx context.Context, entryID uuid.UUID) error {
	if entryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "entry id required")
	}
	if err := s.repo.Delete(ctx, entryID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "production entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete production entry")
	}
	return nil
}

func (s *service) DailyTotal(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	if date.IsZero() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	total, err := s.repo.TotalForDate(ctx, date)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum production")
	}
	return total, nil
}
