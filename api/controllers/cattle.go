package controllers

import (
	"net/http"
	"strings"

	"github.com/dairydesk/dairydesk-backend/api/responses"
	"github.com/dairydesk/dairydesk-backend/api/validators"
	cattlesvc "github.com/dairydesk/dairydesk-backend/internal/cattle"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
)

type registerCattleRequest struct {
	TagNumber   string  `json:"tag_number" validate:"required"`
	Name        *string `json:"name,omitempty"`
	Breed       *string `json:"breed,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	LactationNo int     `json:"lactation_no" validate:"omitempty,min=0"`
	Notes       *string `json:"notes,omitempty"`
}

// RegisterCattle adds an animal to the herd register.
func RegisterCattle(svc cattlesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerCattleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := cattlesvc.RegisterCattleInput{
			TagNumber:   payload.TagNumber,
			Name:        payload.Name,
			Breed:       payload.Breed,
			LactationNo: payload.LactationNo,
			Notes:       payload.Notes,
		}
		if payload.DateOfBirth != nil {
			dob, err := parseDate(*payload.DateOfBirth)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.DateOfBirth = &dob
		}

		animal, err := svc.RegisterCattle(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, animal)
	}
}

// GetCattle returns one animal by id.
func GetCattle(svc cattlesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cattleID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		animal, err := svc.GetCattle(r.Context(), cattleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, animal)
	}
}

// ListCattle returns the herd, optionally filtered by status.
func ListCattle(svc cattlesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.CattleStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseCattleStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = &parsed
		}

		herd, err := svc.ListCattle(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"cattle": herd})
	}
}

type updateCattleRequest struct {
	Name        *string `json:"name,omitempty"`
	Breed       *string `json:"breed,omitempty"`
	Status      *string `json:"status,omitempty"`
	LactationNo *int    `json:"lactation_no,omitempty" validate:"omitempty,min=0"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdateCattle edits herd register fields, including lifecycle status
// transitions like drying off or marking an animal sold.
func UpdateCattle(svc cattlesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cattleID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCattleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := cattlesvc.UpdateCattleInput{
			Name:        payload.Name,
			Breed:       payload.Breed,
			LactationNo: payload.LactationNo,
			Notes:       payload.Notes,
		}
		if payload.Status != nil {
			status, err := enums.ParseCattleStatus(strings.TrimSpace(*payload.Status))
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		animal, err := svc.UpdateCattle(r.Context(), cattleID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, animal)
	}
}
