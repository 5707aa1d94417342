// Package middleware provides HTTP middleware for the storefront API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	svcerrors "github.com/R3E-Network/storefront/internal/errors"
	"github.com/R3E-Network/storefront/internal/httputil"
	"github.com/R3E-Network/storefront/pkg/logger"
)

// UserIdentity requires the caller-asserted user id header on every request.
// A missing header is MISSING_HEADER; a value that is not an integer is
// INVALID_HEADER. The parsed id is stored in the request context.
func UserIdentity(header string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(header))
			if raw == "" {
				httputil.WriteError(w, r, svcerrors.MissingHeader(header))
				return
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				httputil.WriteError(w, r, svcerrors.InvalidHeader(header))
				return
			}
			next.ServeHTTP(w, r.WithContext(logger.WithUserID(r.Context(), id)))
		})
	}
}

// UserIDFromRequest returns the id stored by UserIdentity.
func UserIDFromRequest(r *http.Request) (int64, bool) {
	return logger.UserID(r.Context())
}
