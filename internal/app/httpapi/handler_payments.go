package httpapi

import (
	"net/http"

	"github.com/R3E-Network/storefront/internal/app/validation"
	svcerrors "github.com/R3E-Network/storefront/internal/errors"
	"github.com/R3E-Network/storefront/internal/httputil"
	"github.com/R3E-Network/storefront/pkg/admin"
	"github.com/R3E-Network/storefront/pkg/api"
)

func (h *Handler) registerPayment(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		h.writeRejected(w, r, admin.KindPayment, err)
		return
	}
	in, err := validation.ParsePaymentRegistration(body)
	if err != nil {
		h.writeRejected(w, r, admin.KindPayment, validation.AsServiceError(err))
		return
	}

	p, err := h.app.Payments.Register(r.Context(), in)
	if err != nil {
		h.writeRejected(w, r, admin.KindPayment, err)
		return
	}
	h.writeCreated(w, r, admin.KindPayment, p.UserID, p.ID, api.RegisterPaymentResponse{
		PaymentID:  p.ID,
		UserID:     p.UserID,
		PurchaseID: p.PurchaseID,
		Message:    api.MsgPaymentRegistered,
	})
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Payment not found")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.app.Payments.Get(r.Context(), callerID(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paymentView(p))
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Payments.ListForUser(r.Context(), callerID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(list) == 0 {
		h.writeError(w, r, svcerrors.NotFound("No payments found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paymentsByID(list))
}
