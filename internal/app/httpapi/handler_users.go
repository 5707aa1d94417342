package httpapi

import (
	"net/http"

	"github.com/R3E-Network/storefront/internal/app/validation"
	"github.com/R3E-Network/storefront/internal/httputil"
	"github.com/R3E-Network/storefront/pkg/admin"
	"github.com/R3E-Network/storefront/pkg/api"
)

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		h.writeRejected(w, r, admin.KindUser, err)
		return
	}
	in, err := validation.ParseUserRegistration(body)
	if err != nil {
		h.writeRejected(w, r, admin.KindUser, validation.AsServiceError(err))
		return
	}

	u, err := h.app.Users.Register(r.Context(), in)
	if err != nil {
		h.writeRejected(w, r, admin.KindUser, err)
		return
	}
	h.writeCreated(w, r, admin.KindUser, u.ID, u.ID, api.RegisterUserResponse{
		UserID:  u.ID,
		Email:   u.Email,
		Message: api.MsgUserRegistered,
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "User not found")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.app.Users.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, userView(u))
}
