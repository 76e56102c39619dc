package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

func setupEngagementTest(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	makeTestUser(t, s, "owner", "Owner")
	makeTestUser(t, s, "fan", "Fan")
	makeTestRecipe(t, s, "recipe-1", "owner", domain.VisibilityPublic)
	return s
}

func TestAddLike_Duplicate(t *testing.T) {
	s := setupEngagementTest(t)
	ctx := context.Background()

	if err := s.AddLike(ctx, "fan", "recipe-1", time.Now()); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	if err := s.AddLike(ctx, "fan", "recipe-1", time.Now()); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := s.AddLike(ctx, "fan", "missing", time.Now()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown recipe, got %v", err)
	}
}

func TestAddMade_Duplicate(t *testing.T) {
	s := setupEngagementTest(t)
	ctx := context.Background()

	if err := s.AddMade(ctx, "fan", "recipe-1", time.Now()); err != nil {
		t.Fatalf("AddMade: %v", err)
	}
	if err := s.AddMade(ctx, "fan", "recipe-1", time.Now()); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := s.RemoveMade(ctx, "fan", "recipe-1"); err != nil {
		t.Fatalf("RemoveMade: %v", err)
	}
	if err := s.RemoveMade(ctx, "fan", "recipe-1"); err != nil {
		t.Fatalf("RemoveMade twice should be a no-op: %v", err)
	}
}

func TestSaveFavorite_MovesCollection(t *testing.T) {
	s := setupEngagementTest(t)
	ctx := context.Background()
	saved := time.Now()

	if err := s.SaveFavorite(ctx, &domain.Favorite{UserID: "fan", RecipeID: "recipe-1", Collection: "Favorites", CreatedAt: saved}); err != nil {
		t.Fatalf("SaveFavorite: %v", err)
	}
	if err := s.SaveFavorite(ctx, &domain.Favorite{UserID: "fan", RecipeID: "recipe-1", Collection: "Weeknight", CreatedAt: saved.Add(time.Hour)}); err != nil {
		t.Fatalf("SaveFavorite move: %v", err)
	}

	n, err := s.CountFavorites(ctx, "fan")
	if err != nil {
		t.Fatalf("CountFavorites: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected a single favorite row, got %d", n)
	}

	fav, err := s.GetFavorite(ctx, "fan", "recipe-1")
	if err != nil {
		t.Fatalf("GetFavorite: %v", err)
	}
	if fav.Collection != "Weeknight" {
		t.Errorf("collection = %q", fav.Collection)
	}
	if !fav.CreatedAt.Equal(saved) {
		t.Errorf("saved_at changed on move: %v vs %v", fav.CreatedAt, saved)
	}
}

func TestGetEngagement(t *testing.T) {
	s := setupEngagementTest(t)
	ctx := context.Background()

	state, err := s.GetEngagement(ctx, "fan", "recipe-1")
	if err != nil {
		t.Fatalf("GetEngagement: %v", err)
	}
	if state != (domain.EngagementState{}) {
		t.Fatalf("expected empty state, got %+v", state)
	}

	if err := s.AddLike(ctx, "fan", "recipe-1", time.Now()); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	if err := s.SaveFavorite(ctx, &domain.Favorite{UserID: "fan", RecipeID: "recipe-1", Collection: "Favorites", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SaveFavorite: %v", err)
	}

	state, err = s.GetEngagement(ctx, "fan", "recipe-1")
	if err != nil {
		t.Fatalf("GetEngagement: %v", err)
	}
	want := domain.EngagementState{HasLiked: true, IsFavorited: true, Collection: "Favorites"}
	if state != want {
		t.Errorf("state = %+v, want %+v", state, want)
	}
}

func TestListFavorites_CollectionVisibility(t *testing.T) {
	s := setupEngagementTest(t)
	ctx := context.Background()
	makeTestRecipe(t, s, "recipe-2", "owner", domain.VisibilityPublic)

	if err := s.CreateCollection(ctx, &domain.Collection{ID: "coll-secret", OwnerID: "fan", Name: "Secret", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	now := time.Now()
	if err := s.SaveFavorite(ctx, &domain.Favorite{UserID: "fan", RecipeID: "recipe-1", Collection: "Secret", CreatedAt: now}); err != nil {
		t.Fatalf("SaveFavorite: %v", err)
	}
	if err := s.SaveFavorite(ctx, &domain.Favorite{UserID: "fan", RecipeID: "recipe-2", Collection: "Loose", CreatedAt: now.Add(time.Second)}); err != nil {
		t.Fatalf("SaveFavorite: %v", err)
	}

	all, err := s.ListFavorites(ctx, "fan", "")
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(all))
	}
	// Newest first: the loose favorite has no collection row.
	if all[0].Recipe.ID != "recipe-2" || all[0].CollectionIsPublic != nil {
		t.Errorf("unexpected first entry: %+v", all[0])
	}
	if all[1].CollectionIsPublic == nil || *all[1].CollectionIsPublic {
		t.Errorf("expected private collection flag, got %+v", all[1].CollectionIsPublic)
	}

	secret, err := s.ListFavorites(ctx, "fan", "Secret")
	if err != nil {
		t.Fatalf("ListFavorites(Secret): %v", err)
	}
	if len(secret) != 1 || secret[0].Recipe.ID != "recipe-1" || secret[0].Collection != "Secret" {
		t.Errorf("unexpected filtered favorites: %+v", secret)
	}
}

func TestRemoveFavorite(t *testing.T) {
	s := setupEngagementTest(t)
	ctx := context.Background()

	if err := s.SaveFavorite(ctx, &domain.Favorite{UserID: "fan", RecipeID: "recipe-1", Collection: "Favorites", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SaveFavorite: %v", err)
	}
	if err := s.RemoveFavorite(ctx, "fan", "recipe-1"); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if _, err := s.GetFavorite(ctx, "fan", "recipe-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
