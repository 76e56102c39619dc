package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/http/response"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// EnvelopeVersion is the value of the "v" field in every response body.
const EnvelopeVersion = response.Version

// EnvelopeTransformer wraps every huma response body in the standard
// envelope. Successful bodies go under "data"; errors are flattened into
// code, message and details.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, _ := strconv.Atoi(status)

	switch e := v.(type) {
	case *APIError:
		return errorEnvelope(e.Code, e.Message, e.Details), nil
	case *domainerrors.Error:
		return errorEnvelope(string(e.Code), e.Message, e.Details), nil
	case *store.Error:
		return errorEnvelope(statusToCode(e.HTTPCode()), e.Message, nil), nil
	case error:
		return errorEnvelope(statusToCode(code), e.Error(), nil), nil
	}

	if code >= http.StatusBadRequest {
		return response.Envelope{V: EnvelopeVersion, Success: false, Data: v}, nil
	}
	return response.Envelope{V: EnvelopeVersion, Success: true, Data: v}, nil
}

func errorEnvelope(code, message string, details any) response.Envelope {
	return response.Envelope{
		V:       EnvelopeVersion,
		Success: false,
		Error:   message,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// requestLogger logs one line per request once the response is written.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelDebug
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
