package cattle

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

type stubCattleRepo struct {
	animals map[uuid.UUID]*models.Cattle
	byTag   map[string]uuid.UUID
}

func newStubCattleRepo() *stubCattleRepo {
	return &stubCattleRepo{
		animals: make(map[uuid.UUID]*models.Cattle),
		byTag:   make(map[string]uuid.UUID),
	}
}

func (s *stubCattleRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCattleRepo) Create(ctx context.Context, animal *models.Cattle) error {
	if _, ok := s.byTag[animal.TagNumber]; ok {
		return errors.New(`duplicate key value violates unique constraint "idx_cattle_tag_number"`)
	}
	copied := *animal
	s.animals[animal.ID] = &copied
	s.byTag[animal.TagNumber] = animal.ID
	return nil
}

func (s *stubCattleRepo) Find(ctx context.Context, cattleID uuid.UUID) (*models.Cattle, error) {
	animal, ok := s.animals[cattleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *animal
	return &copied, nil
}

func (s *stubCattleRepo) FindByTag(ctx context.Context, tagNumber string) (*models.Cattle, error) {
	id, ok := s.byTag[tagNumber]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s.Find(ctx, id)
}

func (s *stubCattleRepo) List(ctx context.Context, status *enums.CattleStatus) ([]models.Cattle, error) {
	var herd []models.Cattle
	for _, animal := range s.animals {
		if status != nil && animal.Status != *status {
			continue
		}
		herd = append(herd, *animal)
	}
	return herd, nil
}

func (s *stubCattleRepo) Update(ctx context.Context, cattleID uuid.UUID, updates map[string]any) error {
	animal, ok := s.animals[cattleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"]; ok {
		animal.Status = v.(enums.CattleStatus)
	}
	if v, ok := updates["lactation_no"]; ok {
		animal.LactationNo = v.(int)
	}
	return nil
}

func newTestService(t *testing.T) (Service, *stubCattleRepo) {
	t.Helper()
	repo := newStubCattleRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestRegisterCattle(t *testing.T) {
	svc, _ := newTestService(t)

	animal, err := svc.RegisterCattle(context.Background(), RegisterCattleInput{
		TagNumber:   " C-101 ",
		LactationNo: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "C-101", animal.TagNumber)
	assert.Equal(t, enums.CattleStatusActive, animal.Status)
}

func TestRegisterCattleDuplicateTag(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RegisterCattle(context.Background(), RegisterCattleInput{TagNumber: "C-101"})
	require.NoError(t, err)

	_, err = svc.RegisterCattle(context.Background(), RegisterCattleInput{TagNumber: "C-101"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestRegisterCattleValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RegisterCattle(context.Background(), RegisterCattleInput{TagNumber: "  "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)

	_, err = svc.RegisterCattle(context.Background(), RegisterCattleInput{
		TagNumber:   "C-102",
		LactationNo: -1,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestUpdateCattleStatus(t *testing.T) {
	svc, _ := newTestService(t)

	animal, err := svc.RegisterCattle(context.Background(), RegisterCattleInput{TagNumber: "C-103"})
	require.NoError(t, err)

	dry := enums.CattleStatusDry
	updated, err := svc.UpdateCattle(context.Background(), animal.ID, UpdateCattleInput{Status: &dry})
	require.NoError(t, err)
	assert.Equal(t, enums.CattleStatusDry, updated.Status)

	bogus := enums.CattleStatus("retired")
	_, err = svc.UpdateCattle(context.Background(), animal.ID, UpdateCattleInput{Status: &bogus})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestListCattleByStatus(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.RegisterCattle(context.Background(), RegisterCattleInput{TagNumber: "C-104"})
	require.NoError(t, err)
	_, err = svc.RegisterCattle(context.Background(), RegisterCattleInput{TagNumber: "C-105"})
	require.NoError(t, err)

	sold := enums.CattleStatusSold
	_, err = svc.UpdateCattle(context.Background(), first.ID, UpdateCattleInput{Status: &sold})
	require.NoError(t, err)

	active := enums.CattleStatusActive
	herd, err := svc.ListCattle(context.Background(), &active)
	require.NoError(t, err)
	require.Len(t, herd, 1)
	assert.Equal(t, "C-105", herd[0].TagNumber)
}
