// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"go.uber.org/zap"
)

// Handler answers for requests no route claimed, in the same JSON envelope
// the API uses for every other failure.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// NotFound is the router's fallback handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Log.Debug("no route", zap.String("method", r.Method), zap.String("path", r.URL.Path))
	jsonio.Write(w, http.StatusNotFound, jsonio.ErrorBody{Error: "Not found", Code: "not_found"})
}

// MethodNotAllowed answers when the path exists under another method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonio.Write(w, http.StatusMethodNotAllowed, jsonio.ErrorBody{Error: "Method not allowed", Code: "method_not_allowed"})
}
