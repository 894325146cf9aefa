package production

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

type stubProductionRepo struct {
	entries map[uuid.UUID]*models.ProductionEntry
	cattle  map[uuid.UUID]bool
}

func newStubProductionRepo() *stubProductionRepo {
	return &stubProductionRepo{
		entries: make(map[uuid.UUID]*models.ProductionEntry),
		cattle:  make(map[uuid.UUID]bool),
	}
}

func (s *stubProductionRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductionRepo) Create(ctx context.Context, entry *models.ProductionEntry) error {
	copied := *entry
	s.entries[entry.ID] = &copied
	return nil
}

func (s *stubProductionRepo) Find(ctx context.Context, entryID uuid.UUID) (*models.ProductionEntry, error) {
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	return &copied, nil
}

func (s *stubProductionRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.ProductionEntry, error) {
	var entries []models.ProductionEntry
	for _, entry := range s.entries {
		if entry.Date.Before(from) || entry.Date.After(to) {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (s *stubProductionRepo) Delete(ctx context.Context, entryID uuid.UUID) error {
	if _, ok := s.entries[entryID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.entries, entryID)
	return nil
}

func (s *stubProductionRepo) TotalForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, entry := range s.entries {
		if entry.Date.Equal(date) {
			total = total.Add(entry.QuantityL)
		}
	}
	return total, nil
}

func (s *stubProductionRepo) CattleExists(ctx context.Context, cattleID uuid.UUID) (bool, error) {
	return s.cattle[cattleID], nil
}

func newTestService(t *testing.T) (Service, *stubProductionRepo) {
	t.Helper()
	repo := newStubProductionRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestRecordProductionBulkTank(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.RecordProduction(context.Background(), ProductionInput{
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Session:   enums.MilkSessionMorning,
		QuantityL: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.Nil(t, entry.CattleID)
}

func TestRecordProductionUnknownCattle(t *testing.T) {
	svc, _ := newTestService(t)

	unknown := uuid.New()
	_, err := svc.RecordProduction(context.Background(), ProductionInput{
		CattleID:  &unknown,
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Session:   enums.MilkSessionMorning,
		QuantityL: decimal.NewFromInt(12),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestRecordProductionValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecordProduction(context.Background(), ProductionInput{
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Session:   enums.MilkSessionMorning,
		QuantityL: decimal.Zero,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestDailyTotalSumsSessions(t *testing.T) {
	svc, repo := newTestService(t)
	cattleID := uuid.New()
	repo.cattle[cattleID] = true

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, quantity := range []int64{12, 9} {
		_, err := svc.RecordProduction(context.Background(), ProductionInput{
			CattleID:  &cattleID,
			Date:      date,
			Session:   enums.MilkSessionMorning,
			QuantityL: decimal.NewFromInt(quantity),
		})
		require.NoError(t, err)
	}

	total, err := svc.DailyTotal(context.Background(), date)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(21)), "got %s", total)
}

func TestListProductionValidatesRange(t *testing.T) {
	svc, _ := newTestService(t)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err := svc.ListProduction(context.Background(), from, to)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestDeleteProduction(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.RecordProduction(context.Background(), ProductionInput{
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Session:   enums.MilkSessionEvening,
		QuantityL: decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduction(context.Background(), entry.ID))
	err = svc.DeleteProduction(context.Background(), entry.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}
