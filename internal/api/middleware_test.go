package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/http/response"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

func TestEnvelopeTransformer(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		body        any
		wantSuccess bool
		wantCode    string
		wantData    bool
	}{
		{
			name:        "success body goes under data",
			status:      "200",
			body:        map[string]string{"hello": "world"},
			wantSuccess: true,
			wantData:    true,
		},
		{
			name:     "api error",
			status:   "404",
			body:     &APIError{status: http.StatusNotFound, Code: "NOT_FOUND", Message: "recipe not found"},
			wantCode: "NOT_FOUND",
		},
		{
			name:     "domain error",
			status:   "403",
			body:     domainerrors.Private("private", "usr-1", "Owner"),
			wantCode: "PRIVATE",
		},
		{
			name:     "store error",
			status:   "409",
			body:     store.ErrAlreadyExists,
			wantCode: "CONFLICT",
		},
		{
			name:     "plain error uses the status",
			status:   "429",
			body:     errors.New("slow down"),
			wantCode: "RATE_LIMITED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := EnvelopeTransformer(nil, tt.status, tt.body)
			require.NoError(t, err)

			env, ok := out.(response.Envelope)
			require.True(t, ok)
			assert.Equal(t, EnvelopeVersion, env.V)
			assert.Equal(t, tt.wantSuccess, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
			if tt.wantData {
				assert.Equal(t, tt.body, env.Data)
			} else {
				assert.Nil(t, env.Data)
				assert.NotEmpty(t, env.Message)
			}
		})
	}
}

func TestNewAPIError_HidesInternalMessages(t *testing.T) {
	err := newAPIError(http.StatusInternalServerError, "pq: connection refused")

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.GetStatus())
	assert.Equal(t, "INTERNAL", apiErr.Code)
	assert.Equal(t, "internal server error", apiErr.Message)
}

func TestNewAPIError_MapsDomainErrors(t *testing.T) {
	err := newAPIError(http.StatusInternalServerError, "wrapped", domainerrors.Forbidden("not yours"))

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.GetStatus())
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.Equal(t, "not yours", apiErr.Message)
}

func TestAuthRateLimit(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) {
		o.AuthRateLimitPerMinute = 1
		o.AuthRateLimitBurst = 2
	})

	login := map[string]any{"email": "nobody@example.com", "password": "whatever!"}
	for range 2 {
		resp := ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113.7", login)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113.7", login)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decode[any](t, resp.Body.Bytes()).Code)

	// Other clients and non-auth routes are unaffected.
	resp = ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 198.51.100.1", login)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	resp = ts.api.Get("/api/v1/recipes", "X-Forwarded-For: 203.0.113.7")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestInvalidBearerIsAnonymous(t *testing.T) {
	ts := setupTestServer(t)

	// A bad token on a public route reads as anonymous.
	resp := ts.api.Get("/api/v1/recipes", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/me/recipes", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	health := decode[HealthResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "sqlite ok, 0 accounts", health.Components["database"].Message)
	// An empty index is reported but does not make the service unhealthy.
	assert.Equal(t, "degraded", health.Components["search"].Status)
	assert.Equal(t, "bleve index holds no recipes", health.Components["search"].Message)
	assert.Equal(t, "degraded", health.Status)
}

func TestHealthCheck_IndexedRecipes(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.register(t, "cook@example.com", "Cook")
	ts.createRecipe(t, token, "Shakshuka", "public")

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	health := decode[HealthResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "sqlite ok, 1 accounts", health.Components["database"].Message)
	assert.Equal(t, "healthy", health.Components["search"].Status)
	assert.Equal(t, "bleve index holds 1 recipes", health.Components["search"].Message)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	ts.api.Get("/health")

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cookfeed_http_requests_total")
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	ts := setupTestServer(t)

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decode[any](t, rec.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}
