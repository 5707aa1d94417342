// Package httputil holds the JSON response helpers shared by the HTTP layer
// and a typed client for the storefront API.
package httputil

import (
	"encoding/json"
	"net/http"

	svcerrors "github.com/R3E-Network/storefront/internal/errors"
	"github.com/R3E-Network/storefront/pkg/api"
	"github.com/R3E-Network/storefront/pkg/logger"
)

// WriteJSON writes v as a JSON body with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto a status and error body. Errors that are not a
// ServiceError are reported as INTERNAL_ERROR without their text.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	se := svcerrors.GetServiceError(err)
	if se == nil {
		se = svcerrors.Internal("Internal server error", err)
	}
	status := se.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	WriteErrorResponse(w, r, status, string(se.Code), se.Message, se.Details)
}

// WriteErrorResponse writes an error body from its parts.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	body := api.ErrorResponse{Error: api.ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}}
	if r != nil {
		body.Error.TraceID = logger.TraceID(r.Context())
	}
	WriteJSON(w, status, body)
}
