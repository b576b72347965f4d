package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/edutext/edutext-api/internal/domain/store"
)

// internalError maps unexpected store failures. Transient errors (deadlock,
// lock timeout, lost connection) report 503 so clients know the request is
// safe to retry; everything else is a 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	lg := zctx.From(r.Context())
	if store.IsTransient(err) {
		lg.Warn("transient store error", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "store temporarily unavailable, retry later")
		return
	}
	lg.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
