package vendors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

type stubVendorsRepo struct {
	vendors       map[uuid.UUID]*models.Vendor
	ledgerEntries map[uuid.UUID]bool
}

func newStubVendorsRepo(vendors ...*models.Vendor) *stubVendorsRepo {
	repo := &stubVendorsRepo{
		vendors:       make(map[uuid.UUID]*models.Vendor),
		ledgerEntries: make(map[uuid.UUID]bool),
	}
	for _, vendor := range vendors {
		repo.vendors[vendor.ID] = vendor
	}
	return repo
}

func (s *stubVendorsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubVendorsRepo) Create(ctx context.Context, vendor *models.Vendor) error {
	copied := *vendor
	s.vendors[vendor.ID] = &copied
	return nil
}

func (s *stubVendorsRepo) Find(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.vendors[vendorID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *vendor
	return &copied, nil
}

func (s *stubVendorsRepo) List(ctx context.Context, includeInactive bool) ([]models.Vendor, error) {
	var vendors []models.Vendor
	for _, vendor := range s.vendors {
		if !includeInactive && !vendor.IsActive {
			continue
		}
		vendors = append(vendors, *vendor)
	}
	return vendors, nil
}

func (s *stubVendorsRepo) Update(ctx context.Context, vendorID uuid.UUID, updates map[string]any) error {
	vendor, ok := s.vendors[vendorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		vendor.Name = v.(string)
	}
	if v, ok := updates["default_rate"]; ok {
		vendor.DefaultRate = v.(decimal.Decimal)
	}
	if v, ok := updates["is_active"]; ok {
		vendor.IsActive = v.(bool)
	}
	return nil
}

func (s *stubVendorsRepo) Delete(ctx context.Context, vendorID uuid.UUID) error {
	if _, ok := s.vendors[vendorID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.vendors, vendorID)
	return nil
}

func (s *stubVendorsRepo) HasLedgerEntries(ctx context.Context, vendorID uuid.UUID) (bool, error) {
	return s.ledgerEntries[vendorID], nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	require.NoError(t, err)
	return svc
}

func TestCreateVendorDefaults(t *testing.T) {
	repo := newStubVendorsRepo()
	svc := newTestService(t, repo)

	vendor, err := svc.CreateVendor(context.Background(), CreateVendorInput{
		Name:        "  Gokul Milk  ",
		DefaultRate: decimal.NewFromInt(42),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gokul Milk", vendor.Name)
	assert.True(t, vendor.IsActive)
	assert.True(t, vendor.CurrentBalance.IsZero())
}

func TestCreateVendorValidation(t *testing.T) {
	svc := newTestService(t, newStubVendorsRepo())

	_, err := svc.CreateVendor(context.Background(), CreateVendorInput{Name: "   "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)

	_, err = svc.CreateVendor(context.Background(), CreateVendorInput{
		Name:        "Gokul Milk",
		DefaultRate: decimal.NewFromInt(-5),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestUpdateVendorDeactivates(t *testing.T) {
	vendor := &models.Vendor{ID: uuid.New(), Name: "Gokul Milk", IsActive: true}
	repo := newStubVendorsRepo(vendor)
	svc := newTestService(t, repo)

	inactive := false
	updated, err := svc.UpdateVendor(context.Background(), vendor.ID, UpdateVendorInput{
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	active, err := svc.ListVendors(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListVendors(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateVendorNotFound(t *testing.T) {
	svc := newTestService(t, newStubVendorsRepo())

	name := "New Name"
	_, err := svc.UpdateVendor(context.Background(), uuid.New(), UpdateVendorInput{Name: &name})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestDeleteVendorRefusedWithLedgerHistory(t *testing.T) {
	vendor := &models.Vendor{ID: uuid.New(), Name: "Gokul Milk", IsActive: true}
	repo := newStubVendorsRepo(vendor)
	repo.ledgerEntries[vendor.ID] = true
	svc := newTestService(t, repo)

	err := svc.DeleteVendor(context.Background(), vendor.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "got %v", err)

	_, err = svc.GetVendor(context.Background(), vendor.ID)
	assert.NoError(t, err, "vendor must survive a refused delete")
}

func TestDeleteVendorWithoutHistory(t *testing.T) {
	vendor := &models.Vendor{ID: uuid.New(), Name: "Gokul Milk", IsActive: true}
	repo := newStubVendorsRepo(vendor)
	svc := newTestService(t, repo)

	require.NoError(t, svc.DeleteVendor(context.Background(), vendor.ID))

	_, err := svc.GetVendor(context.Background(), vendor.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}
