package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/api/responses"
	"github.com/dairydesk/dairydesk-backend/api/validators"
	customersvc "github.com/dairydesk/dairydesk-backend/internal/customers"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
)

type createCustomerRequest struct {
	Name        string          `json:"name" validate:"required"`
	Phone       *string         `json:"phone,omitempty"`
	Address     *string         `json:"address,omitempty"`
	DefaultRate decimal.Decimal `json:"default_rate"`
}

// CreateCustomer registers a milk buyer.
func CreateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.CreateCustomer(r.Context(), customersvc.CreateCustomerInput{
			Name:        validators.SanitizeString(payload.Name, 120),
			Phone:       payload.Phone,
			Address:     payload.Address,
			DefaultRate: payload.DefaultRate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

// GetCustomer returns one customer.
func GetCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

// ListCustomers returns all customers, hiding inactive ones unless asked.
func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := svc.ListCustomers(r.Context(), boolQuery(r, "include_inactive"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"customers": customers})
	}
}

type updateCustomerRequest struct {
	Name        *string          `json:"name,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Address     *string          `json:"address,omitempty"`
	DefaultRate *decimal.Decimal `json:"default_rate,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// UpdateCustomer edits customer profile fields.
func UpdateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.UpdateCustomer(r.Context(), customerID, customersvc.UpdateCustomerInput{
			Name:        payload.Name,
			Phone:       payload.Phone,
			Address:     payload.Address,
			DefaultRate: payload.DefaultRate,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

type saleRequest struct {
	Date         string          `json:"date" validate:"required"`
	Session      string          `json:"session" validate:"required"`
	QuantityL    decimal.Decimal `json:"quantity_l"`
	RatePerLiter decimal.Decimal `json:"rate_per_liter"`
}

// RecordSale logs milk sold to a customer. A zero rate falls back to the
// customer's default rate.
func RecordSale(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload saleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := parseDate(payload.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := enums.ParseMilkSession(strings.TrimSpace(payload.Session))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session"))
			return
		}

		sale, err := svc.RecordSale(r.Context(), customersvc.SaleInput{
			CustomerID:   customerID,
			Date:         date,
			Session:      session,
			QuantityL:    payload.QuantityL,
			RatePerLiter: payload.RatePerLiter,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

// DeleteSale removes a mislogged sale.
func DeleteSale(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := pathUUID(r, "saleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteSale(r.Context(), saleID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type receiptRequest struct {
	Date            string          `json:"date" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Mode            string          `json:"mode" validate:"required"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
}

// RecordReceipt logs money collected from a customer.
func RecordReceipt(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload receiptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := parseDate(payload.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mode, err := enums.ParsePaymentMode(strings.TrimSpace(payload.Mode))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment mode"))
			return
		}

		receipt, err := svc.RecordReceipt(r.Context(), customersvc.ReceiptInput{
			CustomerID:      customerID,
			Date:            date,
			Amount:          payload.Amount,
			Mode:            mode,
			ReferenceNumber: payload.ReferenceNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// CustomerOutstanding returns the receivable position for one customer,
// derived from sales minus receipts at read time.
func CustomerOutstanding(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.CustomerOutstanding(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
