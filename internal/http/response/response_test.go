package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
)

var discard = slog.New(slog.DiscardHandler)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequests(w, "slow down", 2500*time.Millisecond, discard)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("Retry-After"))
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, float64(Version), body["v"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, string(domainerrors.CodeRateLimited), body["code"])
	assert.Equal(t, "slow down", body["error"])
}

func TestTooManyRequests_MinimumRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequests(w, "slow down", 0, nil)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	NotFound(w, "route not found", discard)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, string(domainerrors.CodeNotFound), body["code"])
	assert.NotContains(t, body, "data")
}

func TestError_CodeFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   domainerrors.Code
	}{
		{http.StatusBadRequest, domainerrors.CodeValidation},
		{http.StatusUnauthorized, domainerrors.CodeUnauthorized},
		{http.StatusForbidden, domainerrors.CodeForbidden},
		{http.StatusConflict, domainerrors.CodeConflict},
		{http.StatusBadGateway, domainerrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			Error(w, tt.status, "", "nope", nil, discard)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, string(tt.want), decode(t, w)["code"])
		})
	}
}

func TestError_KeepsDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := domainerrors.Private("private profile", "user-9", "Grace")
	Error(w, err.HTTPStatus(), err.Code, err.Message, err.Details, discard)

	details, ok := decode(t, w)["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user-9", details["owner_id"])
	assert.Equal(t, "Grace", details["owner_name"])
	assert.Equal(t, true, details["private"])
}
