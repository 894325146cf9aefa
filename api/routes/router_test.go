package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cattlesvc "github.com/dairydesk/dairydesk-backend/internal/cattle"
	customersvc "github.com/dairydesk/dairydesk-backend/internal/customers"
	inventorysvc "github.com/dairydesk/dairydesk-backend/internal/inventory"
	ledgersvc "github.com/dairydesk/dairydesk-backend/internal/ledger"
	productionsvc "github.com/dairydesk/dairydesk-backend/internal/production"
	reportsvc "github.com/dairydesk/dairydesk-backend/internal/reports"
	vendorsvc "github.com/dairydesk/dairydesk-backend/internal/vendors"
	"github.com/dairydesk/dairydesk-backend/pkg/config"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
	"github.com/dairydesk/dairydesk-backend/pkg/pagination"
)

type stubLedgerService struct {
	procurements int
	payments     int
}

func (s *stubLedgerService) RecordProcurement(_ context.Context, input ledgersvc.ProcurementInput) (*models.ProcurementEntry, error) {
	s.procurements++
	return &models.ProcurementEntry{
		ID:          uuid.New(),
		VendorID:    input.VendorID,
		Date:        input.Date,
		Session:     input.Session,
		QuantityL:   input.QuantityL,
		TotalAmount: input.QuantityL.Mul(input.RatePerLiter),
	}, nil
}

func (s *stubLedgerService) UpdateProcurement(_ context.Context, entryID uuid.UUID, _ ledgersvc.ProcurementUpdateInput) (*models.ProcurementEntry, error) {
	return &models.ProcurementEntry{ID: entryID}, nil
}

func (s *stubLedgerService) DeleteProcurement(context.Context, uuid.UUID) error { return nil }

func (s *stubLedgerService) GetProcurement(_ context.Context, entryID uuid.UUID) (*models.ProcurementEntry, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "procurement entry not found")
}

func (s *stubLedgerService) ListProcurements(context.Context, ledgersvc.EntryFilters, pagination.Params) (*ledgersvc.ProcurementList, error) {
	return &ledgersvc.ProcurementList{}, nil
}

func (s *stubLedgerService) RecordPayment(_ context.Context, input ledgersvc.PaymentInput) (*models.PaymentEntry, error) {
	s.payments++
	return &models.PaymentEntry{ID: uuid.New(), VendorID: input.VendorID, Amount: input.Amount}, nil
}

func (s *stubLedgerService) RecordBulkPayments(ctx context.Context, inputs []ledgersvc.PaymentInput) ([]ledgersvc.BulkPaymentResult, error) {
	results := make([]ledgersvc.BulkPaymentResult, 0, len(inputs))
	for i, input := range inputs {
		payment, _ := s.RecordPayment(ctx, input)
		results = append(results, ledgersvc.BulkPaymentResult{Index: i, Payment: payment})
	}
	return results, nil
}

func (s *stubLedgerService) ListPayments(context.Context, ledgersvc.EntryFilters, pagination.Params) (*ledgersvc.PaymentList, error) {
	return &ledgersvc.PaymentList{}, nil
}

func (s *stubLedgerService) VendorSummary(_ context.Context, vendorID uuid.UUID) (*ledgersvc.VendorSummary, error) {
	return &ledgersvc.VendorSummary{VendorID: vendorID, Name: "Ramu"}, nil
}

func (s *stubLedgerService) VendorsWithOutstandingBalance(context.Context, decimal.Decimal) ([]ledgersvc.VendorSummary, error) {
	return nil, nil
}

type stubVendorService struct{}

func (stubVendorService) CreateVendor(_ context.Context, input vendorsvc.CreateVendorInput) (*models.Vendor, error) {
	return &models.Vendor{ID: uuid.New(), Name: input.Name, IsActive: true}, nil
}

func (stubVendorService) GetVendor(_ context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	return &models.Vendor{ID: vendorID, Name: "Ramu", IsActive: true}, nil
}

func (stubVendorService) ListVendors(context.Context, bool) ([]models.Vendor, error) {
	return []models.Vendor{}, nil
}

func (stubVendorService) UpdateVendor(_ context.Context, vendorID uuid.UUID, _ vendorsvc.UpdateVendorInput) (*models.Vendor, error) {
	return &models.Vendor{ID: vendorID}, nil
}

func (stubVendorService) DeleteVendor(context.Context, uuid.UUID) error { return nil }

type stubCattleService struct{}

func (stubCattleService) RegisterCattle(_ context.Context, input cattlesvc.RegisterCattleInput) (*models.Cattle, error) {
	return &models.Cattle{ID: uuid.New(), TagNumber: input.TagNumber}, nil
}

func (stubCattleService) GetCattle(_ context.Context, cattleID uuid.UUID) (*models.Cattle, error) {
	return &models.Cattle{ID: cattleID}, nil
}

func (stubCattleService) ListCattle(context.Context, *enums.CattleStatus) ([]models.Cattle, error) {
	return nil, nil
}

func (stubCattleService) UpdateCattle(_ context.Context, cattleID uuid.UUID, _ cattlesvc.UpdateCattleInput) (*models.Cattle, error) {
	return &models.Cattle{ID: cattleID}, nil
}

type stubProductionService struct{}

func (stubProductionService) RecordProduction(_ context.Context, input productionsvc.ProductionInput) (*models.ProductionEntry, error) {
	return &models.ProductionEntry{ID: uuid.New(), QuantityL: input.QuantityL}, nil
}

func (stubProductionService) ListProduction(context.Context, time.Time, time.Time) ([]models.ProductionEntry, error) {
	return nil, nil
}

func (stubProductionService) DeleteProduction(context.Context, uuid.UUID) error { return nil }

func (stubProductionService) DailyTotal(context.Context, time.Time) (decimal.Decimal, error) {
	return decimal.NewFromInt(120), nil
}

type stubCustomerService struct{}

func (stubCustomerService) CreateCustomer(_ context.Context, input customersvc.CreateCustomerInput) (*models.Customer, error) {
	return &models.Customer{ID: uuid.New(), Name: input.Name}, nil
}

func (stubCustomerService) GetCustomer(_ context.Context, customerID uuid.UUID) (*models.Customer, error) {
	return &models.Customer{ID: customerID}, nil
}

func (stubCustomerService) ListCustomers(context.Context, bool) ([]models.Customer, error) {
	return nil, nil
}

func (stubCustomerService) UpdateCustomer(_ context.Context, customerID uuid.UUID, _ customersvc.UpdateCustomerInput) (*models.Customer, error) {
	return &models.Customer{ID: customerID}, nil
}

func (stubCustomerService) RecordSale(_ context.Context, input customersvc.SaleInput) (*models.SaleEntry, error) {
	return &models.SaleEntry{ID: uuid.New(), CustomerID: input.CustomerID}, nil
}

func (stubCustomerService) DeleteSale(context.Context, uuid.UUID) error { return nil }

func (stubCustomerService) RecordReceipt(_ context.Context, input customersvc.ReceiptInput) (*models.ReceiptEntry, error) {
	return &models.ReceiptEntry{ID: uuid.New(), CustomerID: input.CustomerID}, nil
}

func (stubCustomerService) CustomerOutstanding(_ context.Context, customerID uuid.UUID) (*customersvc.OutstandingSummary, error) {
	return &customersvc.OutstandingSummary{CustomerID: customerID}, nil
}

type stubInventoryService struct{}

func (stubInventoryService) CreateItem(_ context.Context, input inventorysvc.CreateItemInput) (*models.InventoryItem, error) {
	return &models.InventoryItem{ID: uuid.New(), Name: input.Name}, nil
}

func (stubInventoryService) GetItem(_ context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	return &models.InventoryItem{ID: itemID}, nil
}

func (stubInventoryService) ListItems(context.Context) ([]models.InventoryItem, error) {
	return nil, nil
}

func (stubInventoryService) ListLowStock(context.Context) ([]models.InventoryItem, error) {
	return nil, nil
}

func (stubInventoryService) RecordMovement(_ context.Context, input inventorysvc.MovementInput) (*models.StockMovement, error) {
	return &models.StockMovement{ID: uuid.New(), ItemID: input.ItemID}, nil
}

func (stubInventoryService) ListMovements(context.Context, uuid.UUID) ([]models.StockMovement, error) {
	return nil, nil
}

type stubReportsService struct{}

func (stubReportsService) Dashboard(_ context.Context, date time.Time) (*reportsvc.DashboardSummary, error) {
	return &reportsvc.DashboardSummary{Date: date}, nil
}

func (stubReportsService) Register(_ context.Context, from, to time.Time) (*reportsvc.LedgerRegister, error) {
	return &reportsvc.LedgerRegister{From: from, To: to}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *stubLedgerService) {
	t.Helper()
	cfg := &config.Config{
		App:    config.AppConfig{Env: "test", Port: "8080"},
		Ledger: config.LedgerConfig{IdempotencyTTL: time.Hour, BulkPaymentMaxItems: 100},
	}
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	ledgerStub := &stubLedgerService{}
	router := NewRouter(cfg, logg, nil, nil, Services{
		Ledger:     ledgerStub,
		Vendors:    stubVendorService{},
		Cattle:     stubCattleService{},
		Production: stubProductionService{},
		Customers:  stubCustomerService{},
		Inventory:  stubInventoryService{},
		Reports:    stubReportsService{},
	})
	return router, ledgerStub
}

func TestHealthProbes(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "test", w.Header().Get("X-DairyDesk-Env"))
	}
}

func TestCreateProcurementRoute(t *testing.T) {
	router, ledgerStub := newTestRouter(t)

	body := `{
		"vendor_id": "` + uuid.NewString() + `",
		"date": "2025-03-10",
		"session": "morning",
		"quantity_l": "50",
		"rate_per_liter": "45"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/procurements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, ledgerStub.procurements)
}

func TestCreateProcurementRejectsBadSession(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{
		"vendor_id": "` + uuid.NewString() + `",
		"date": "2025-03-10",
		"session": "midnight",
		"quantity_l": "50",
		"rate_per_liter": "45"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/procurements", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVendorRoutesRejectMalformedID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
}

func TestBulkPaymentsRoute(t *testing.T) {
	router, ledgerStub := newTestRouter(t)

	body := `{"payments": [
		{"vendor_id": "` + uuid.NewString() + `", "date": "2025-03-10", "amount": "500", "mode": "cash"},
		{"vendor_id": "` + uuid.NewString() + `", "date": "2025-03-10", "amount": "250", "mode": "upi"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/bulk", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 2, ledgerStub.payments)
}

func TestUnknownRouteReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/does-not-exist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
