package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/api/responses"
	"github.com/dairydesk/dairydesk-backend/api/validators"
	productionsvc "github.com/dairydesk/dairydesk-backend/internal/production"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
)

type productionRequest struct {
	CattleID  *string         `json:"cattle_id,omitempty"`
	Date      string          `json:"date" validate:"required"`
	Session   string          `json:"session" validate:"required"`
	QuantityL decimal.Decimal `json:"quantity_l"`
	Notes     *string         `json:"notes,omitempty"`
}

// RecordProduction logs a milking session, either per animal or for the bulk
// tank when cattle_id is omitted.
func RecordProduction(svc productionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productionRequest
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

		input := productionsvc.ProductionInput{
			Date:      date,
			Session:   session,
			QuantityL: payload.QuantityL,
			Notes:     payload.Notes,
		}
		if payload.CattleID != nil {
			cattleID, err := parseBodyUUID(*payload.CattleID, "cattle_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CattleID = &cattleID
		}

		entry, err := svc.RecordProduction(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// ListProduction returns production entries for a date range. Both bounds
// are required; open-ended scans are not served.
func ListProduction(svc productionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := parseDateQuery(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseDateQuery(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if from == nil || to == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "from and to query parameters required"))
			return
		}

		entries, err := svc.ListProduction(r.Context(), *from, *to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"entries": entries})
	}
}

// DeleteProduction removes a mislogged production entry.
func DeleteProduction(svc productionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduction(r.Context(), entryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// DailyProductionTotal returns the summed liters for one date.
func DailyProductionTotal(svc productionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := parseDateQuery(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if date == nil {
			now := time.Now().UTC()
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			date = &today
		}

		total, err := svc.DailyTotal(r.Context(), *date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"date":       date.Format(dateLayout),
			"quantity_l": total,
		})
	}
}
