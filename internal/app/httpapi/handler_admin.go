package httpapi

import (
	"net/http"
	"strconv"

	"github.com/R3E-Network/storefront/internal/app/validation"
	"github.com/R3E-Network/storefront/internal/httputil"
	"github.com/R3E-Network/storefront/pkg/admin"
)

func (h *Handler) adminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.app.Admin.Users(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, usersByID(users))
}

func (h *Handler) adminPaidPurchases(w http.ResponseWriter, r *http.Request) {
	stats, err := h.app.Admin.PaidPurchaseStats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, admin.PaidPurchases{
		Count:              stats.Count,
		Total:              stats.Total,
		PaidPurchasesCount: stats.Count,
	})
}

func (h *Handler) adminTotalPurchases(w http.ResponseWriter, r *http.Request) {
	count, err := h.app.Admin.TotalPurchaseCount(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, admin.PurchaseCount{Count: count})
}

func (h *Handler) adminAudit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, r, validation.AsServiceError(validation.Errors{{
				Field:   "limit",
				Message: "value is not a valid non-negative integer",
				Type:    "type_error.integer",
			}}))
			return
		}
		limit = n
	}
	kind := r.URL.Query().Get("kind")
	switch kind {
	case "", admin.KindUser, admin.KindPurchase, admin.KindPayment:
	default:
		h.writeError(w, r, validation.AsServiceError(validation.Errors{{
			Field:   "kind",
			Message: "value is not a valid enumeration member; permitted: 'user', 'purchase', 'payment'",
			Type:    "type_error.enum",
		}}))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, admin.AuditLog{Entries: h.audit.recent(kind, limit)})
}
