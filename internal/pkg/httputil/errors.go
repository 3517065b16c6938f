package httputil

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/bissquit/urbankart/internal/pkg/ctxlog"
)

// ErrorMapping defines how a domain error maps to an HTTP response.
type ErrorMapping struct {
	Error   error
	Status  int
	Code    string
	Message string // if empty, uses err.Error()
}

// HandleError maps a domain error to an HTTP response using provided mappings.
// Unmatched errors that look like a dependency outage (timeouts, connection
// failures from the store or a collaborator) become 503 unavailable so the
// client knows a retry can help; anything else is logged and returned as 500.
func HandleError(ctx context.Context, w http.ResponseWriter, err error, mappings []ErrorMapping) {
	for _, m := range mappings {
		if errors.Is(err, m.Error) {
			msg := m.Message
			if msg == "" {
				msg = err.Error()
			}
			Error(w, m.Status, m.Code, msg)
			return
		}
	}
	if isTransient(err) {
		ctxlog.FromContext(ctx).Warn("dependency unavailable", "error", err)
		Error(w, http.StatusServiceUnavailable, CodeUnavailable, "service temporarily unavailable")
		return
	}
	ctxlog.FromContext(ctx).Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, CodeInternal, "internal error")
}

// isTransient reports whether the error chain contains a timeout or network
// failure rather than a bug.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
