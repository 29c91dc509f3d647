package controllers

import (
	"net/http"

	"github.com/kofimensah/emporium-backend/api/responses"
	checkoutsvc "github.com/kofimensah/emporium-backend/internal/checkout"
	pkgerrors "github.com/kofimensah/emporium-backend/pkg/errors"
	"github.com/kofimensah/emporium-backend/pkg/logger"
)

// CheckoutConfirm converts the caller's cart into a confirmed order.
func CheckoutConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		uid, err := cartUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Confirm(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
