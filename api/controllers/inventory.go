package controllers

import (
	"net/http"
	"strings"

	"github.com/ghazlapps/salon-backend/api/responses"
	"github.com/ghazlapps/salon-backend/api/validators"
	"github.com/ghazlapps/salon-backend/internal/inventory"
	"github.com/ghazlapps/salon-backend/pkg/enums"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
	"github.com/ghazlapps/salon-backend/pkg/logger"
)

type adjustStockRequest struct {
	ChangeAmount int     `json:"change_amount" validate:"required"`
	Reason       string  `json:"reason" validate:"required"`
	Note         *string `json:"note,omitempty"`
}

// AdjustStock applies one signed stock change to a product through the
// inventory ledger. Sale adjustments are rejected here; those only happen
// inside checkout.
func AdjustStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reason, err := enums.ParseInventoryLogReason(strings.TrimSpace(payload.Reason))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reason"))
			return
		}
		if reason == enums.InventoryLogReasonSale {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "sale adjustments are created by checkout only"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, productID)
		}

		item, err := svc.Adjust(ctx, inventory.AdjustInput{
			ProductID:    productID,
			ChangeAmount: payload.ChangeAmount,
			Reason:       reason,
			Note:         payload.Note,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// GetStock returns the current stock snapshot for a product.
func GetStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.GetByProductID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}

// ListStock returns stock snapshots for every tracked product.
func ListStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshots, err := svc.ListSnapshots(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshots)
	}
}

// ListStockLogs returns a product's adjustment history in chronological order.
func ListStockLogs(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logs, err := svc.LogsForProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, logs)
	}
}
