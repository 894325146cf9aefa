package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dairydesk/dairydesk-backend/api/controllers"
	"github.com/dairydesk/dairydesk-backend/api/middleware"
	cattlesvc "github.com/dairydesk/dairydesk-backend/internal/cattle"
	customersvc "github.com/dairydesk/dairydesk-backend/internal/customers"
	inventorysvc "github.com/dairydesk/dairydesk-backend/internal/inventory"
	ledgersvc "github.com/dairydesk/dairydesk-backend/internal/ledger"
	productionsvc "github.com/dairydesk/dairydesk-backend/internal/production"
	reportsvc "github.com/dairydesk/dairydesk-backend/internal/reports"
	vendorsvc "github.com/dairydesk/dairydesk-backend/internal/vendors"
	"github.com/dairydesk/dairydesk-backend/pkg/config"
	"github.com/dairydesk/dairydesk-backend/pkg/db"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
	pkgredis "github.com/dairydesk/dairydesk-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Ledger     ledgersvc.Service
	Vendors    vendorsvc.Service
	Cattle     cattlesvc.Service
	Production productionsvc.Service
	Customers  customersvc.Service
	Inventory  inventorysvc.Service
	Reports    reportsvc.Service
}

// NewRouter assembles the HTTP surface: health probes plus the /api/v1 farm
// routes, with idempotency replay on the money-moving writes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *pkgredis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisPinger(redisClient), logg))
	})

	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg, cfg.Ledger.IdempotencyTTL))

		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", controllers.CreateVendor(svcs.Vendors, logg))
			r.Get("/", controllers.ListVendors(svcs.Vendors, logg))
			r.Get("/outstanding", controllers.OutstandingVendors(svcs.Ledger, logg))
			r.Get("/{id}", controllers.GetVendor(svcs.Vendors, logg))
			r.Put("/{id}", controllers.UpdateVendor(svcs.Vendors, logg))
			r.Delete("/{id}", controllers.DeleteVendor(svcs.Vendors, logg))
			r.Get("/{id}/ledger", controllers.VendorLedgerSummary(svcs.Ledger, logg))
		})

		r.Route("/procurements", func(r chi.Router) {
			r.Post("/", controllers.CreateProcurement(svcs.Ledger, logg))
			r.Get("/", controllers.ListProcurements(svcs.Ledger, logg))
			r.Get("/{id}", controllers.GetProcurement(svcs.Ledger, logg))
			r.Put("/{id}", controllers.UpdateProcurement(svcs.Ledger, logg))
			r.Delete("/{id}", controllers.DeleteProcurement(svcs.Ledger, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.CreatePayment(svcs.Ledger, logg))
			r.Post("/bulk", controllers.CreateBulkPayments(svcs.Ledger, logg))
			r.Get("/", controllers.ListPayments(svcs.Ledger, logg))
		})

		r.Route("/cattle", func(r chi.Router) {
			r.Post("/", controllers.RegisterCattle(svcs.Cattle, logg))
			r.Get("/", controllers.ListCattle(svcs.Cattle, logg))
			r.Get("/{id}", controllers.GetCattle(svcs.Cattle, logg))
			r.Put("/{id}", controllers.UpdateCattle(svcs.Cattle, logg))
		})

		r.Route("/production", func(r chi.Router) {
			r.Post("/", controllers.RecordProduction(svcs.Production, logg))
			r.Get("/", controllers.ListProduction(svcs.Production, logg))
			r.Get("/daily-total", controllers.DailyProductionTotal(svcs.Production, logg))
			r.Delete("/{id}", controllers.DeleteProduction(svcs.Production, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/{id}", controllers.GetCustomer(svcs.Customers, logg))
			r.Put("/{id}", controllers.UpdateCustomer(svcs.Customers, logg))
			r.Post("/{id}/sales", controllers.RecordSale(svcs.Customers, logg))
			r.Delete("/{id}/sales/{saleID}", controllers.DeleteSale(svcs.Customers, logg))
			r.Post("/{id}/receipts", controllers.RecordReceipt(svcs.Customers, logg))
			r.Get("/{id}/outstanding", controllers.CustomerOutstanding(svcs.Customers, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", controllers.CreateInventoryItem(svcs.Inventory, logg))
			r.Get("/", controllers.ListInventoryItems(svcs.Inventory, logg))
			r.Get("/{id}", controllers.GetInventoryItem(svcs.Inventory, logg))
			r.Post("/{id}/movements", controllers.RecordStockMovement(svcs.Inventory, logg))
			r.Get("/{id}/movements", controllers.ListStockMovements(svcs.Inventory, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", controllers.Dashboard(svcs.Reports, logg))
			r.Get("/ledger-register", controllers.LedgerRegister(svcs.Reports, logg))
		})
	})

	return r
}

func redisPinger(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
