package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/api/responses"
	"github.com/dairydesk/dairydesk-backend/api/validators"
	vendorsvc "github.com/dairydesk/dairydesk-backend/internal/vendors"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
)

type createVendorRequest struct {
	Name        string          `json:"name" validate:"required"`
	Phone       *string         `json:"phone,omitempty"`
	Address     *string         `json:"address,omitempty"`
	BankAccount *string         `json:"bank_account,omitempty"`
	BankIFSC    *string         `json:"bank_ifsc,omitempty"`
	DefaultRate decimal.Decimal `json:"default_rate"`
}

// CreateVendor registers a milk supplier.
func CreateVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createVendorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.CreateVendor(r.Context(), vendorsvc.CreateVendorInput{
			Name:        validators.SanitizeString(payload.Name, 120),
			Phone:       payload.Phone,
			Address:     payload.Address,
			BankAccount: payload.BankAccount,
			BankIFSC:    payload.BankIFSC,
			DefaultRate: payload.DefaultRate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, vendor)
	}
}

// GetVendor returns one vendor.
func GetVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.GetVendor(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vendor)
	}
}

// ListVendors returns all vendors. Inactive vendors are hidden unless
// include_inactive=true.
func ListVendors(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendors, err := svc.ListVendors(r.Context(), boolQuery(r, "include_inactive"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"vendors": vendors})
	}
}

type updateVendorRequest struct {
	Name        *string          `json:"name,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Address     *string          `json:"address,omitempty"`
	BankAccount *string          `json:"bank_account,omitempty"`
	BankIFSC    *string          `json:"bank_ifsc,omitempty"`
	DefaultRate *decimal.Decimal `json:"default_rate,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// UpdateVendor edits vendor profile fields. Balance aggregates are owned by
// the ledger and cannot be set here.
func UpdateVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateVendorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.UpdateVendor(r.Context(), vendorID, vendorsvc.UpdateVendorInput{
			Name:        payload.Name,
			Phone:       payload.Phone,
			Address:     payload.Address,
			BankAccount: payload.BankAccount,
			BankIFSC:    payload.BankIFSC,
			DefaultRate: payload.DefaultRate,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vendor)
	}
}

// DeleteVendor removes a vendor that has no ledger history. Vendors with
// history must be deactivated instead so the ledger stays auditable.
func DeleteVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteVendor(r.Context(), vendorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
