package httpapi

import (
	"net/http"

	"github.com/R3E-Network/storefront/internal/app/validation"
	svcerrors "github.com/R3E-Network/storefront/internal/errors"
	"github.com/R3E-Network/storefront/internal/httputil"
	"github.com/R3E-Network/storefront/pkg/admin"
	"github.com/R3E-Network/storefront/pkg/api"
)

func (h *Handler) registerPurchase(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		h.writeRejected(w, r, admin.KindPurchase, err)
		return
	}
	in, err := validation.ParsePurchaseRegistration(body)
	if err != nil {
		h.writeRejected(w, r, admin.KindPurchase, validation.AsServiceError(err))
		return
	}

	p, err := h.app.Purchases.Register(r.Context(), in)
	if err != nil {
		h.writeRejected(w, r, admin.KindPurchase, err)
		return
	}
	h.writeCreated(w, r, admin.KindPurchase, p.UserID, p.ID, api.RegisterPurchaseResponse{
		PurchaseID: p.ID,
		UserID:     p.UserID,
		ItemName:   p.ItemName,
		Price:      p.Price,
		Paid:       p.Paid,
		Message:    api.MsgPurchaseRegistered,
	})
}

func (h *Handler) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Purchase not found")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.app.Purchases.Get(r.Context(), callerID(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, purchaseView(p))
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Purchases.ListForUser(r.Context(), callerID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(list) == 0 {
		h.writeError(w, r, svcerrors.NotFound("No purchases found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, purchasesByID(list))
}
