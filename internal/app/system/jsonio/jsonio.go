// Package jsonio reads JSON request bodies and writes JSON responses,
// including the {"error","code"} envelope every API failure uses.
package jsonio

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"go.uber.org/zap"
)

// MaxBody caps request bodies. Webhook payloads are the largest input.
const MaxBody = 5 << 20

// ErrorBody is the failure envelope.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Decode reads r's body into dst. An empty or malformed body is
// ErrInvalidInput.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Invalid("Request body is required")
		case errors.As(err, &tooBig):
			return apperr.Invalid("Request body too large")
		default:
			return apperr.Invalid("Malformed JSON body")
		}
	}
	return nil
}

// Write sends v as JSON with status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error logs err and writes its envelope. Client errors log at Debug,
// upstream and internal failures at Error.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := apperr.Status(err)
	code := apperr.Code(err)

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("code", code),
		zap.Error(err),
	}
	var up *apperr.UpstreamError
	if errors.As(err, &up) || status >= 500 {
		log.Error("request failed", fields...)
	} else {
		log.Debug("request rejected", fields...)
	}

	Write(w, status, ErrorBody{Error: apperr.Message(err), Code: code})
}
