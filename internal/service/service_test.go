package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/store/sqlite"
)

// testEnv is a fresh database plus the collaborators every service needs.
type testEnv struct {
	store  *sqlite.Store
	policy *policy.Policy
	logger *slog.Logger
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return &testEnv{
		store:  s,
		policy: policy.New(),
		logger: slog.New(slog.DiscardHandler),
	}
}

// createUser inserts a user directly through the store. Password hashing is
// skipped; tests that log in go through AuthService.Register instead.
func (e *testEnv) createUser(t *testing.T, userID, name string) *domain.User {
	t.Helper()
	ts := time.Now()
	u := &domain.User{
		ID:           userID,
		Email:        userID + "@example.com",
		PasswordHash: "unused",
		Name:         name,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

// createRecipe inserts a recipe directly through the store.
func (e *testEnv) createRecipe(t *testing.T, recipeID, ownerID string, v domain.Visibility) *domain.Recipe {
	t.Helper()
	return e.createRecipeAt(t, recipeID, ownerID, v, time.Now())
}

func (e *testEnv) createRecipeAt(t *testing.T, recipeID, ownerID string, v domain.Visibility, at time.Time) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		ID:           recipeID,
		OwnerID:      ownerID,
		Title:        "Recipe " + recipeID,
		Visibility:   v,
		Tags:         []string{"dinner"},
		Ingredients:  []string{"salt", "water"},
		Instructions: []string{"boil"},
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	require.NoError(t, e.store.CreateRecipe(context.Background(), r))
	return r
}

func (e *testEnv) setPrefs(t *testing.T, userID string, patch domain.PreferencesPatch) {
	t.Helper()
	_, err := e.store.UpsertPreferences(context.Background(), userID, patch, time.Now())
	require.NoError(t, err)
}

// requireCode asserts err is a domain error carrying code.
func requireCode(t *testing.T, err error, code domainerrors.Code) *domainerrors.Error {
	t.Helper()
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %T: %v", err, err)
	require.Equal(t, code, domainErr.Code, "unexpected error: %v", err)
	return domainErr
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
