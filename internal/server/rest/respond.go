package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/logging"
)

// Error kinds returned to clients. They are part of the API and must stay
// stable.
const (
	KindInvalidInput       = "InvalidInput"
	KindDuplicateIdentity  = "DuplicateIdentity"
	KindInvalidCredentials = "InvalidCredentials"
	KindUnauthenticated    = "Unauthenticated"
	KindCompletionFailure  = "CompletionProviderFailure"
	KindInternal           = "Internal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Kind: kind, Message: message})
}

// writeServiceError maps a service error to its status and kind. Unknown
// errors are logged and reported as a bare internal error.
func writeServiceError(ctx context.Context, w http.ResponseWriter, logger logging.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, KindInvalidInput, err.Error())
	case errors.Is(err, common.ErrDuplicateIdentity):
		writeError(w, http.StatusBadRequest, KindDuplicateIdentity, "username or email already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, KindInvalidCredentials, "invalid credentials")
	case errors.Is(err, common.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, KindUnauthenticated, "authentication required")
	case errors.Is(err, common.ErrCompletionFailure):
		logger.Error(ctx, "completion failure", "error", err)
		writeError(w, http.StatusInternalServerError, KindCompletionFailure, err.Error())
	default:
		logger.Error(ctx, "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, KindInternal, "internal error")
	}
}
