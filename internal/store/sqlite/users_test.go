package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

func TestCreateUser_SeedsPreferencesAndDefaultCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "Ada")

	prefs, err := s.GetPreferences(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	want := domain.DefaultPreferences("user-1")
	if prefs.WeeklyDigest != want.WeeklyDigest || prefs.ShowEmail != want.ShowEmail || prefs.ColorTheme != want.ColorTheme {
		t.Errorf("seeded preferences differ from defaults: %+v", prefs)
	}

	collections, err := s.ListCollections(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	if len(collections) != 1 || collections[0].Collection.Name != domain.DefaultCollection {
		t.Fatalf("expected only the default collection, got %+v", collections)
	}
	if !collections[0].Collection.IsPublic {
		t.Error("default collection should start public")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "Ada")

	now := time.Now()
	dup := &domain.User{ID: "user-2", Email: "USER-1@example.com", Name: "Other", CreatedAt: now, UpdatedAt: now}
	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// The failed insert must not leave a half-created account behind.
	if _, err := s.GetUser(ctx, "user-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for rolled back user, got %v", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	makeTestUser(t, s, "user-1", "Ada")

	got, err := s.GetUserByEmail(context.Background(), "  User-1@Example.com ")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("expected user-1, got %s", got.ID)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserProfile_Partial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "user-1", "Ada")

	bio := "I bake"
	got, err := s.UpdateUserProfile(ctx, "user-1", domain.ProfileUpdate{Bio: &bio}, time.Now())
	if err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("name should be untouched, got %q", got.Name)
	}
	if got.Bio != "I bake" {
		t.Errorf("bio = %q", got.Bio)
	}

	if _, err := s.UpdateUserProfile(ctx, "ghost", domain.ProfileUpdate{Bio: &bio}, time.Now()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "viewer", "Grace Viewer")
	makeTestUser(t, s, "user-a", "Grace Hopper")
	makeTestUser(t, s, "user-b", "Grace Hidden")
	makeTestUser(t, s, "user-c", "Alan")

	no := false
	if _, err := s.UpsertPreferences(ctx, "user-b", domain.PreferencesPatch{Searchable: &no}, time.Now()); err != nil {
		t.Fatalf("UpsertPreferences: %v", err)
	}
	if _, err := s.Follow(ctx, "viewer", "user-a", time.Now()); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	results, err := s.SearchUsers(ctx, "viewer", "grace", 10)
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %+v", results)
	}
	if results[0].User.ID != "user-a" || !results[0].IsFollowing || results[0].FollowerCount != 1 {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestSearchUsers_MissingPreferencesUseDefault(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "viewer", "Viewer")
	makeTestUser(t, s, "user-a", "Grace Hopper")

	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = ?`, "user-a"); err != nil {
		t.Fatalf("delete preferences: %v", err)
	}

	results, err := s.SearchUsers(ctx, "viewer", "grace", 10)
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	want := 0
	if domain.DefaultPreferences("").Searchable {
		want = 1
	}
	if len(results) != want {
		t.Fatalf("expected %d results for a user without preferences, got %+v", want, results)
	}
}
