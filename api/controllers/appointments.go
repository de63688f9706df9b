package controllers

import (
	"net/http"
	"strings"

	"github.com/ghazlapps/salon-backend/api/responses"
	"github.com/ghazlapps/salon-backend/api/validators"
	"github.com/ghazlapps/salon-backend/internal/appointments"
	"github.com/ghazlapps/salon-backend/pkg/enums"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
	"github.com/ghazlapps/salon-backend/pkg/logger"
)

type appointmentServiceLine struct {
	ServiceID uint `json:"service_id" validate:"required,min=1"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type appointmentRequest struct {
	CustomerID uint                     `json:"customer_id" validate:"required,min=1"`
	Date       string                   `json:"date" validate:"required"`
	StartTime  string                   `json:"start_time" validate:"required"`
	EndTime    string                   `json:"end_time" validate:"required"`
	Status     string                   `json:"status" validate:"required"`
	Notes      *string                  `json:"notes,omitempty"`
	Services   []appointmentServiceLine `json:"services,omitempty" validate:"omitempty,dive"`
}

func (r appointmentRequest) toInput() (appointments.Input, error) {
	status, err := enums.ParseAppointmentStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return appointments.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}

	lines := make([]appointments.ServiceLine, 0, len(r.Services))
	for _, line := range r.Services {
		lines = append(lines, appointments.ServiceLine{ServiceID: line.ServiceID, Quantity: line.Quantity})
	}

	return appointments.Input{
		CustomerID: r.CustomerID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Status:     status,
		Notes:      r.Notes,
		Services:   lines,
	}, nil
}

func CreateAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload appointmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointment, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, appointment)
	}
}

func UpdateAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "appointmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload appointmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointment, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, appointment)
	}
}

func DeleteAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "appointmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": id})
	}
}

func GetAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "appointmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointment, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, appointment)
	}
}

// ListAppointments filters by customer_id or date. One of the two is required.
func ListAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseQueryInt(r, "customer_id", 0, 0, 1<<31-1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		date := validators.ParseQueryString(r, "date", "")

		switch {
		case customerID > 0:
			rows, err := svc.ListByCustomerID(r.Context(), uint(customerID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, rows)

		case date != "":
			rows, err := svc.ListByDate(r.Context(), date)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, rows)

		default:
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "customer_id or date query parameter required"))
		}
	}
}
