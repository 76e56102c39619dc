package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/cookfeed/cookfeed-server/internal/auth"
	"github.com/cookfeed/cookfeed-server/internal/metrics"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/search"
	"github.com/cookfeed/cookfeed-server/internal/service"
	"github.com/cookfeed/cookfeed-server/internal/store/sqlite"
)

const testDigestSecret = "digest-secret"

// testServer is a fully wired API over a temporary database.
type testServer struct {
	*Server
	api     humatest.TestAPI
	db      *sqlite.Store
	sender  *recordingSender
	metrics *metrics.Metrics
}

// testEnvelope mirrors the response envelope with a typed payload.
type testEnvelope[T any] struct {
	V       int             `json:"v"`
	Success bool            `json:"success"`
	Data    T               `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// recordingSender captures digest emails instead of sending them.
type recordingSender struct {
	mu   sync.Mutex
	sent []service.DigestEmail
}

func (r *recordingSender) SendDigest(_ context.Context, email service.DigestEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, email)
	return nil
}

func setupTestServer(t *testing.T, tweak ...func(*Options)) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	dir := t.TempDir()

	db, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	index, err := search.Open(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	m := metrics.NewMetrics(prometheus.NewRegistry())
	pol := policy.New()
	sender := &recordingSender{}
	searchService := service.NewSearchService(index, db, logger)
	sessions := service.NewSessionService(db, tokens, logger)

	services := &Services{
		Auth:          service.NewAuthService(db, tokens, sessions, logger),
		Recipe:        service.NewRecipeService(db, pol, searchService, logger),
		Collaboration: service.NewCollaborationService(db, pol, logger),
		Engagement:    service.NewEngagementService(db, pol, logger),
		Comment:       service.NewCommentService(db, pol, logger),
		Collection:    service.NewCollectionService(db, logger),
		Profile:       service.NewProfileService(db, pol, logger),
		Social:        service.NewSocialService(db, pol, logger),
		Preferences:   service.NewPreferencesService(db, logger),
		Search:        searchService,
		Digest:        service.NewDigestService(db, sender, 0, m, logger),
	}

	opts := Options{
		DigestSecret: testDigestSecret,
		Metrics:      m,
	}
	for _, fn := range tweak {
		fn(&opts)
	}

	srv := NewServer(db, services, opts, logger)
	t.Cleanup(srv.Close)

	return &testServer{
		Server:  srv,
		api:     humatest.Wrap(t, srv.API()),
		db:      db,
		sender:  sender,
		metrics: m,
	}
}

// register signs up a user and returns their access token and ID.
func (ts *testServer) register(t *testing.T, email, name string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "correct horse battery",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	env := decode[AuthResponse](t, resp.Body.Bytes())
	return env.Data.AccessToken, env.Data.User.ID
}

// createRecipe creates a recipe through the API and returns its ID.
func (ts *testServer) createRecipe(t *testing.T, token, title, visibility string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/recipes", bearer(token), map[string]any{
		"title":        title,
		"visibility":   visibility,
		"tags":         []string{"Dinner"},
		"ingredients":  []string{"pasta", "salt"},
		"instructions": []string{"boil", "drain"},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	return decode[RecipeOutputBody](t, resp.Body.Bytes()).Data.ID
}

// RecipeOutputBody is the decoded payload of recipe endpoints.
type RecipeOutputBody struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Visibility string `json:"visibility"`
	LikeCount  int    `json:"like_count"`
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func decode[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

// decodeMap returns the envelope's data as a generic map, for key checks.
func decodeMap(t *testing.T, body []byte) map[string]any {
	t.Helper()
	return decode[map[string]any](t, body).Data
}
