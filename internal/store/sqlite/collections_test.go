package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

func TestCreateCollection_UniquePerOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")
	makeTestUser(t, s, "bob", "Bob")
	now := time.Now()

	if err := s.CreateCollection(ctx, &domain.Collection{ID: "coll-1", OwnerID: "alice", Name: "Trip", CreatedAt: now}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	err := s.CreateCollection(ctx, &domain.Collection{ID: "coll-2", OwnerID: "alice", Name: "Trip", CreatedAt: now})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := s.CreateCollection(ctx, &domain.Collection{ID: "coll-3", OwnerID: "bob", Name: "Trip", CreatedAt: now}); err != nil {
		t.Fatalf("another owner may reuse the name: %v", err)
	}
}

func TestEnsureCollection_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")

	// CreateUser already seeded the default collection.
	c := &domain.Collection{ID: "coll-dup", OwnerID: "alice", Name: domain.DefaultCollection, IsPublic: true, CreatedAt: time.Now()}
	if err := s.EnsureCollection(ctx, c); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}

	list, err := s.ListCollections(ctx, "alice")
	if err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	if len(list) != 1 || list[0].Collection.Name != domain.DefaultCollection {
		t.Fatalf("unexpected collections: %+v", list)
	}
	if list[0].Collection.ID == "coll-dup" {
		t.Errorf("EnsureCollection replaced the existing row")
	}
}

func TestListCollections_DefaultFirstWithCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")
	makeTestRecipe(t, s, "recipe-1", "alice", domain.VisibilityPublic)

	if err := s.CreateCollection(ctx, &domain.Collection{ID: "coll-a", OwnerID: "alice", Name: "Apps", CreatedAt: time.Now().Add(-time.Hour)}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if err := s.SaveFavorite(ctx, &domain.Favorite{UserID: "alice", RecipeID: "recipe-1", Collection: "Apps", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SaveFavorite: %v", err)
	}

	list, err := s.ListCollections(ctx, "alice")
	if err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(list))
	}
	if list[0].Collection.Name != domain.DefaultCollection || list[0].RecipeCount != 0 {
		t.Errorf("first = %+v", list[0])
	}
	if list[1].Collection.Name != "Apps" || list[1].RecipeCount != 1 {
		t.Errorf("second = %+v", list[1])
	}
}

func TestDeleteCollection_ReassignsFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")
	makeTestRecipe(t, s, "recipe-1", "alice", domain.VisibilityPublic)
	makeTestRecipe(t, s, "recipe-2", "alice", domain.VisibilityPublic)

	if err := s.CreateCollection(ctx, &domain.Collection{ID: "coll-trip", OwnerID: "alice", Name: "Trip", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	for _, id := range []string{"recipe-1", "recipe-2"} {
		if err := s.SaveFavorite(ctx, &domain.Favorite{UserID: "alice", RecipeID: id, Collection: "Trip", CreatedAt: time.Now()}); err != nil {
			t.Fatalf("SaveFavorite(%s): %v", id, err)
		}
	}

	if err := s.DeleteCollection(ctx, "alice", "coll-trip"); err != nil {
		t.Fatalf("DeleteCollection: %v", err)
	}

	if _, err := s.GetCollection(ctx, "coll-trip"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("collection should be gone, got %v", err)
	}
	favs, err := s.ListFavorites(ctx, "alice", domain.DefaultCollection)
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favs) != 2 {
		t.Errorf("expected both favorites in %s, got %d", domain.DefaultCollection, len(favs))
	}
}

func TestDeleteCollection_OtherOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")
	makeTestUser(t, s, "mallory", "Mallory")

	if err := s.CreateCollection(ctx, &domain.Collection{ID: "coll-trip", OwnerID: "alice", Name: "Trip", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if err := s.DeleteCollection(ctx, "mallory", "coll-trip"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetCollection(ctx, "coll-trip"); err != nil {
		t.Fatalf("collection should survive: %v", err)
	}
}

func TestUpdateCollection_RenameMovesFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")
	makeTestRecipe(t, s, "recipe-1", "alice", domain.VisibilityPublic)

	if err := s.CreateCollection(ctx, &domain.Collection{ID: "coll-trip", OwnerID: "alice", Name: "Trip", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if err := s.SaveFavorite(ctx, &domain.Favorite{UserID: "alice", RecipeID: "recipe-1", Collection: "Trip", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SaveFavorite: %v", err)
	}

	name := "Road Trip"
	public := true
	c, err := s.UpdateCollection(ctx, "alice", "coll-trip", domain.CollectionUpdate{Name: &name, IsPublic: &public})
	if err != nil {
		t.Fatalf("UpdateCollection: %v", err)
	}
	if c.Name != name || !c.IsPublic {
		t.Errorf("unexpected collection: %+v", c)
	}

	fav, err := s.GetFavorite(ctx, "alice", "recipe-1")
	if err != nil {
		t.Fatalf("GetFavorite: %v", err)
	}
	if fav.Collection != name {
		t.Errorf("favorite still in %q", fav.Collection)
	}
}

func TestUpdateCollection_RenameConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "alice", "Alice")

	if err := s.CreateCollection(ctx, &domain.Collection{ID: "coll-trip", OwnerID: "alice", Name: "Trip", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	name := domain.DefaultCollection
	_, err := s.UpdateCollection(ctx, "alice", "coll-trip", domain.CollectionUpdate{Name: &name})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}
