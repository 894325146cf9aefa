package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/api/responses"
	"github.com/dairydesk/dairydesk-backend/api/validators"
	ledgersvc "github.com/dairydesk/dairydesk-backend/internal/ledger"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
	"github.com/dairydesk/dairydesk-backend/pkg/pagination"
)

type procurementRequest struct {
	VendorID     string          `json:"vendor_id" validate:"required,uuid"`
	Date         string          `json:"date" validate:"required"`
	Session      string          `json:"session" validate:"required"`
	QuantityL    decimal.Decimal `json:"quantity_l"`
	FatPct       decimal.Decimal `json:"fat_pct"`
	SNFPct       decimal.Decimal `json:"snf_pct"`
	RatePerLiter decimal.Decimal `json:"rate_per_liter"`
}

func (r procurementRequest) toInput() (ledgersvc.ProcurementInput, error) {
	vendorID, err := parseBodyUUID(r.VendorID, "vendor_id")
	if err != nil {
		return ledgersvc.ProcurementInput{}, err
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return ledgersvc.ProcurementInput{}, err
	}
	session, err := enums.ParseMilkSession(strings.TrimSpace(r.Session))
	if err != nil {
		return ledgersvc.ProcurementInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session")
	}
	return ledgersvc.ProcurementInput{
		VendorID:     vendorID,
		Date:         date,
		Session:      session,
		QuantityL:    r.QuantityL,
		FatPct:       r.FatPct,
		SNFPct:       r.SNFPct,
		RatePerLiter: r.RatePerLiter,
	}, nil
}

// CreateProcurement records one milk collection and moves the vendor balance
// in the same transaction.
func CreateProcurement(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload procurementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.RecordProcurement(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

type procurementUpdateRequest struct {
	Date          *string          `json:"date,omitempty"`
	Session       *string          `json:"session,omitempty"`
	QuantityL     *decimal.Decimal `json:"quantity_l,omitempty"`
	FatPct        *decimal.Decimal `json:"fat_pct,omitempty"`
	SNFPct        *decimal.Decimal `json:"snf_pct,omitempty"`
	RatePerLiter  *decimal.Decimal `json:"rate_per_liter,omitempty"`
	PaymentStatus *string          `json:"payment_status,omitempty"`
}

func (r procurementUpdateRequest) toInput() (ledgersvc.ProcurementUpdateInput, error) {
	input := ledgersvc.ProcurementUpdateInput{
		QuantityL:    r.QuantityL,
		FatPct:       r.FatPct,
		SNFPct:       r.SNFPct,
		RatePerLiter: r.RatePerLiter,
	}
	if r.Date != nil {
		date, err := parseDate(*r.Date)
		if err != nil {
			return ledgersvc.ProcurementUpdateInput{}, err
		}
		input.Date = &date
	}
	if r.Session != nil {
		session, err := enums.ParseMilkSession(strings.TrimSpace(*r.Session))
		if err != nil {
			return ledgersvc.ProcurementUpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session")
		}
		input.Session = &session
	}
	if r.PaymentStatus != nil {
		status, err := enums.ParseProcurementPaymentStatus(strings.TrimSpace(*r.PaymentStatus))
		if err != nil {
			return ledgersvc.ProcurementUpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
		}
		input.PaymentStatus = &status
	}
	return input, nil
}

// UpdateProcurement edits an entry and re-settles the vendor balance by the
// difference between the old and new totals.
func UpdateProcurement(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload procurementUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.UpdateProcurement(r.Context(), entryID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}

// DeleteProcurement removes an entry and reverses its effect on the vendor
// balance.
func DeleteProcurement(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProcurement(r.Context(), entryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetProcurement returns one procurement entry.
func GetProcurement(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.GetProcurement(r.Context(), entryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}

func entryFiltersFromQuery(r *http.Request) (ledgersvc.EntryFilters, pagination.Params, error) {
	var filters ledgersvc.EntryFilters

	vendorID, err := queryUUID(r, "vendor_id")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.VendorID = vendorID

	if filters.DateFrom, err = parseDateQuery(r, "from"); err != nil {
		return filters, pagination.Params{}, err
	}
	if filters.DateTo, err = parseDateQuery(r, "to"); err != nil {
		return filters, pagination.Params{}, err
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return filters, pagination.Params{}, err
	}

	params := pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}
	return filters, params, nil
}

// ListProcurements returns a cursor page of procurement entries, optionally
// filtered by vendor and date range.
func ListProcurements(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, params, err := entryFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProcurements(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items":       page.Items,
			"next_cursor": page.NextCursor,
		})
	}
}

type paymentRequest struct {
	VendorID        string          `json:"vendor_id" validate:"required,uuid"`
	Date            string          `json:"date" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Mode            string          `json:"mode" validate:"required"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
}

func (r paymentRequest) toInput() (ledgersvc.PaymentInput, error) {
	vendorID, err := parseBodyUUID(r.VendorID, "vendor_id")
	if err != nil {
		return ledgersvc.PaymentInput{}, err
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return ledgersvc.PaymentInput{}, err
	}
	mode, err := enums.ParsePaymentMode(strings.TrimSpace(r.Mode))
	if err != nil {
		return ledgersvc.PaymentInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment mode")
	}
	return ledgersvc.PaymentInput{
		VendorID:        vendorID,
		Date:            date,
		Amount:          r.Amount,
		Mode:            mode,
		ReferenceNumber: r.ReferenceNumber,
		Notes:           r.Notes,
	}, nil
}

// CreatePayment records one vendor payout.
func CreatePayment(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.RecordPayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

type bulkPaymentRequest struct {
	Payments []paymentRequest `json:"payments" validate:"required,min=1,dive"`
}

// CreateBulkPayments settles many vendors in one call. The batch is
// best-effort: each item succeeds or fails on its own and the response
// reports every outcome in submission order.
func CreateBulkPayments(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bulkPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]ledgersvc.PaymentInput, 0, len(payload.Payments))
		for i, item := range payload.Payments {
			input, err := item.toInput()
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.As(err).WithDetails(map[string]any{"index": i}))
				return
			}
			inputs = append(inputs, input)
		}

		results, err := svc.RecordBulkPayments(r.Context(), inputs)
		if err != nil && results == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		failed := 0
		for _, result := range results {
			if result.Error != nil {
				failed++
			}
		}

		status := http.StatusCreated
		if failed > 0 {
			status = http.StatusMultiStatus
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"results":   results,
			"submitted": len(results),
			"failed":    failed,
		})
	}
}

// ListPayments returns a cursor page of vendor payments.
func ListPayments(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, params, err := entryFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPayments(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items":       page.Items,
			"next_cursor": page.NextCursor,
		})
	}
}

// VendorLedgerSummary returns one vendor's materialized balance position.
func VendorLedgerSummary(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.VendorSummary(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// OutstandingVendors lists vendors whose balance exceeds the optional
// threshold query parameter (default zero: anyone the dairy owes money).
func OutstandingVendors(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := decimal.Zero
		if raw := strings.TrimSpace(r.URL.Query().Get("threshold")); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid threshold"))
				return
			}
			threshold = parsed
		}

		summaries, err := svc.VendorsWithOutstandingBalance(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"vendors": summaries})
	}
}
