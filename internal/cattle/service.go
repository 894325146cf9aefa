package cattle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

// Service owns the herd registry.
type Service interface {
	RegisterCattle(ctx context.Context, input RegisterCattleInput) (*models.Cattle, error)
	GetCattle(ctx context.Context, cattleID uuid.UUID) (*models.Cattle, error)
	ListCattle(ctx context.Context, status *enums.CattleStatus) ([]models.Cattle, error)
	UpdateCattle(ctx context.Context, cattleID uuid.UUID, input UpdateCattleInput) (*models.Cattle, error)
}

// RegisterCattleInput carries a new animal registration.
type RegisterCattleInput struct {
	TagNumber   string
	Name        *string
	Breed       *string
	DateOfBirth *time.Time
	LactationNo int
	Notes       *string
}

// UpdateCattleInput lists the mutable herd fields. Nil pointers leave the
// stored value untouched.
type UpdateCattleInput struct {
	Name        *string
	Breed       *string
	Status      *enums.CattleStatus
	LactationNo *int
	Notes       *string
}

type service struct {
	repo Repository
}

// NewService builds the cattle service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cattle repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RegisterCattle(ctx context.Context, input RegisterCattleInput) (*models.Cattle, error) {
	tag := strings.TrimSpace(input.TagNumber)
	if tag == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tag number required")
	}
	if input.LactationNo < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lactation number cannot be negative")
	}

	animal := &models.Cattle{
		ID:          uuid.New(),
		TagNumber:   tag,
		Name:        input.Name,
		Breed:       input.Breed,
		DateOfBirth: input.DateOfBirth,
		Status:      enums.CattleStatusActive,
		LactationNo: input.LactationNo,
		Notes:       input.Notes,
	}
	if err := s.repo.Create(ctx, animal); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("tag number %q already registered", tag))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cattle")
	}
	return animal, nil
}

func (s *service) GetCattle(ctx context.Context, cattleID uuid.UUID) (*models.Cattle, error) {
	if cattleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cattle id required")
	}
	animal, err := s.repo.Find(ctx, cattleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cattle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cattle")
	}
	return animal, nil
}

func (s *service) ListCattle(ctx context.Context, status *enums.CattleStatus) ([]models.Cattle, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cattle status %q", *status))
	}
	herd, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cattle")
	}
	return herd, nil
}

func (s *service) UpdateCattle(ctx context.Context, cattleID uuid.UUID, input UpdateCattleInput) (*models.Cattle, error) {
	if cattleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cattle id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Breed != nil {
		updates["breed"] = *input.Breed
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cattle status %q", *input.Status))
		}
		updates["status"] = *input.Status
	}
	if input.LactationNo != nil {
		if *input.LactationNo < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "lactation number cannot be negative")
		}
		updates["lactation_no"] = *input.LactationNo
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, cattleID, updates); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cattle not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cattle")
		}
	}
	return s.GetCattle(ctx, cattleID)
}
