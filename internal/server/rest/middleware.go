package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/dmitrijs2005/corechat/internal/server/models"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFromContext returns the identity attached by RequireSession or
// Identify.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*models.Identity)
	return id, ok && id != nil
}

// tokenFromRequest reads the session token from the cookie, falling back to
// an "Authorization: Bearer" header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(common.SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	h := r.Header.Get(common.AuthorizationHeaderName)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}

	return ""
}

// RequireSession rejects the request with 401 unless it carries a valid
// session token.
func (h *handlers) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := h.sessions.Verify(ctx, tokenFromRequest(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, KindUnauthenticated, "authentication required")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, identityKey, id)))
	})
}

// Identify attaches the identity when the token is valid and lets the
// request through either way.
func (h *handlers) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if token := tokenFromRequest(r); token != "" {
			if id, err := h.sessions.Verify(ctx, token); err == nil {
				ctx = context.WithValue(ctx, identityKey, id)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs one line per request and puts the chi request id into
// the context so handler log lines carry it too.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := logging.ContextWithRequestID(r.Context(), chimiddleware.GetReqID(r.Context()))
			r = r.WithContext(ctx)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			}

			if status >= http.StatusInternalServerError {
				logger.Warn(ctx, "request", args...)
			} else {
				logger.Info(ctx, "request", args...)
			}
		})
	}
}
