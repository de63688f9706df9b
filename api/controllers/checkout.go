package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ghazlapps/salon-backend/api/responses"
	"github.com/ghazlapps/salon-backend/api/validators"
	checkoutsvc "github.com/ghazlapps/salon-backend/internal/checkout"
	"github.com/ghazlapps/salon-backend/pkg/enums"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
	"github.com/ghazlapps/salon-backend/pkg/logger"
)

type checkoutLineRequest struct {
	Kind     string `json:"kind" validate:"required"`
	ItemID   uint   `json:"item_id" validate:"required,min=1"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type checkoutRequest struct {
	CustomerID    uint                  `json:"customer_id" validate:"required,min=1"`
	AppointmentID *uint                 `json:"appointment_id,omitempty"`
	Lines         []checkoutLineRequest `json:"lines" validate:"required,min=1,dive"`
	Tip           decimal.Decimal       `json:"tip"`
}

func (r checkoutRequest) toInput() (checkoutsvc.CheckoutInput, error) {
	lines := make([]checkoutsvc.CartLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		kind, err := enums.ParseReceiptItemKind(strings.TrimSpace(line.Kind))
		if err != nil {
			return checkoutsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line kind")
		}
		lines = append(lines, checkoutsvc.CartLine{
			Kind:     kind,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		})
	}

	return checkoutsvc.CheckoutInput{
		CustomerID:    r.CustomerID,
		AppointmentID: r.AppointmentID,
		Lines:         lines,
		Tip:           r.Tip,
	}, nil
}

// Checkout settles a cart into a receipt. Product stock is validated up
// front and depleted in the same transaction that persists the receipt.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, input.CustomerID)
		}

		receipt, err := svc.Checkout(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithReceiptID(ctx, receipt.ID)
			logg.Info(ctx, "checkout.settled")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
