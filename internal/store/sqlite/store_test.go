package sqlite

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// makeTestUser inserts a user with the given id and name.
func makeTestUser(t *testing.T, s *Store, userID, name string) *domain.User {
	t.Helper()
	now := time.Now()
	u := &domain.User{
		ID:           userID,
		Email:        userID + "@example.com",
		PasswordHash: "hash",
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", userID, err)
	}
	return u
}

// makeTestRecipe inserts a recipe owned by ownerID.
func makeTestRecipe(t *testing.T, s *Store, recipeID, ownerID string, v domain.Visibility) *domain.Recipe {
	t.Helper()
	now := time.Now()
	r := &domain.Recipe{
		ID:           recipeID,
		OwnerID:      ownerID,
		Title:        "Recipe " + recipeID,
		Visibility:   v,
		Tags:         []string{"dinner"},
		Ingredients:  []string{"salt", "water"},
		Instructions: []string{"boil"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateRecipe(context.Background(), r); err != nil {
		t.Fatalf("CreateRecipe(%s): %v", recipeID, err)
	}
	return r
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{
		"users", "sessions", "user_preferences", "recipes", "recipe_editors",
		"likes", "made_recipes", "favorites", "collections", "followers", "comments",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()

	if err := s2.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestFormatTime_SortsLexically(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier := formatTime(base)
	later := formatTime(base.Add(100 * time.Millisecond))

	if !(earlier < later) {
		t.Errorf("expected %q < %q", earlier, later)
	}

	parsed, err := parseTime(later)
	if err != nil {
		t.Fatalf("parseTime: %v", err)
	}
	if !parsed.Equal(base.Add(100 * time.Millisecond)) {
		t.Errorf("round trip mismatch: %v", parsed)
	}
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`["a","b"]`, []string{"a", "b"}},
		{``, []string{}},
		{`just text`, []string{"just text"}},
	}
	for _, tt := range tests {
		got := decodeList(tt.in)
		if len(got) != len(tt.want) {
			t.Fatalf("decodeList(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("decodeList(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	if got := likePattern(`50%_off`); got != `%50\%\_off%` {
		t.Errorf("likePattern = %q", got)
	}
}
