package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/api/responses"
	"github.com/dairydesk/dairydesk-backend/api/validators"
	inventorysvc "github.com/dairydesk/dairydesk-backend/internal/inventory"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
)

type createItemRequest struct {
	Name              string          `json:"name" validate:"required"`
	Unit              string          `json:"unit" validate:"required"`
	OpeningQuantity   decimal.Decimal `json:"opening_quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// CreateInventoryItem adds a feed or supply item to the store register.
func CreateInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), inventorysvc.CreateItemInput{
			Name:              payload.Name,
			Unit:              payload.Unit,
			OpeningQuantity:   payload.OpeningQuantity,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// GetInventoryItem returns one item with its current quantity.
func GetInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// ListInventoryItems returns the whole store register, or only items at or
// below their low-stock threshold when low_stock=true.
func ListInventoryItems(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []models.InventoryItem
			err   error
		)
		if boolQuery(r, "low_stock") {
			items, err = svc.ListLowStock(r.Context())
		} else {
			items, err = svc.ListItems(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

type movementRequest struct {
	Type     string          `json:"type" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Reason   *string         `json:"reason,omitempty"`
}

// RecordStockMovement applies a stock-in or stock-out. A stock-out that
// would drive the quantity negative is refused and leaves no audit row.
func RecordStockMovement(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload movementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movementType, err := enums.ParseStockMovementType(strings.TrimSpace(payload.Type))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type"))
			return
		}

		movement, err := svc.RecordMovement(r.Context(), inventorysvc.MovementInput{
			ItemID:   itemID,
			Type:     movementType,
			Quantity: payload.Quantity,
			Reason:   payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, movement)
	}
}

// ListStockMovements returns the movement history for one item.
func ListStockMovements(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movements, err := svc.ListMovements(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"movements": movements})
	}
}
