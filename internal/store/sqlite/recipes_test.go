package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

func TestCreateAndGetRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "owner", "Ada")
	makeTestRecipe(t, s, "recipe-1", "owner", domain.VisibilityPrivate)

	got, err := s.GetRecipe(ctx, "recipe-1")
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.OwnerID != "owner" || got.Visibility != domain.VisibilityPrivate {
		t.Errorf("unexpected recipe: %+v", got)
	}
	if len(got.Ingredients) != 2 || got.Instructions[0] != "boil" || got.Tags[0] != "dinner" {
		t.Errorf("lists not round-tripped: %+v", got)
	}
}

func TestCreateRecipe_UnknownOwner(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	err := s.CreateRecipe(context.Background(), &domain.Recipe{
		ID: "recipe-1", OwnerID: "ghost", Title: "x", Visibility: domain.VisibilityPublic,
		CreatedAt: now, UpdatedAt: now,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRecipeSummary_LiveCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "owner", "Ada")
	makeTestUser(t, s, "fan", "Fan")
	makeTestRecipe(t, s, "recipe-1", "owner", domain.VisibilityPublic)

	if err := s.AddLike(ctx, "fan", "recipe-1", time.Now()); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	if err := s.AddLike(ctx, "owner", "recipe-1", time.Now()); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	now := time.Now()
	if err := s.CreateComment(ctx, &domain.Comment{ID: "cmt-1", RecipeID: "recipe-1", UserID: "fan", Content: "yum", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	sum, err := s.GetRecipeSummary(ctx, "recipe-1")
	if err != nil {
		t.Fatalf("GetRecipeSummary: %v", err)
	}
	if sum.LikeCount != 2 || sum.CommentCount != 1 {
		t.Errorf("counts = %d likes, %d comments", sum.LikeCount, sum.CommentCount)
	}
	if sum.Author.Name != "Ada" {
		t.Errorf("author = %+v", sum.Author)
	}

	if err := s.RemoveLike(ctx, "fan", "recipe-1"); err != nil {
		t.Fatalf("RemoveLike: %v", err)
	}
	n, err := s.CountLikes(ctx, "recipe-1")
	if err != nil {
		t.Fatalf("CountLikes: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 like after removal, got %d", n)
	}
}

func TestUpdateRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "owner", "Ada")
	r := makeTestRecipe(t, s, "recipe-1", "owner", domain.VisibilityPublic)

	r.Title = "Better"
	r.Visibility = domain.VisibilityPrivate
	r.UpdatedAt = time.Now()
	if err := s.UpdateRecipe(ctx, r); err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}

	got, err := s.GetRecipe(ctx, "recipe-1")
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.Title != "Better" || got.Visibility != domain.VisibilityPrivate {
		t.Errorf("update not applied: %+v", got)
	}

	r.ID = "missing"
	if err := s.UpdateRecipe(ctx, r); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRecipe_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "owner", "Ada")
	makeTestUser(t, s, "fan", "Fan")
	makeTestRecipe(t, s, "recipe-1", "owner", domain.VisibilityPublic)

	if err := s.AddLike(ctx, "fan", "recipe-1", time.Now()); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	if err := s.DeleteRecipe(ctx, "recipe-1"); err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}

	var likes int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM likes`).Scan(&likes); err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if likes != 0 {
		t.Errorf("likes should cascade, %d left", likes)
	}

	if err := s.DeleteRecipe(ctx, "recipe-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListPublicRecipes_FiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "owner", "Ada")

	makeTestRecipe(t, s, "recipe-old", "owner", domain.VisibilityPublic)
	time.Sleep(2 * time.Millisecond)
	makeTestRecipe(t, s, "recipe-private", "owner", domain.VisibilityPrivate)
	time.Sleep(2 * time.Millisecond)
	r := makeTestRecipe(t, s, "recipe-new", "owner", domain.VisibilityPublic)

	r.Tags = []string{"dessert"}
	r.UpdatedAt = time.Now()
	if err := s.UpdateRecipe(ctx, r); err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}

	feed, err := s.ListPublicRecipes(ctx, store.RecipeFilter{})
	if err != nil {
		t.Fatalf("ListPublicRecipes: %v", err)
	}
	if len(feed) != 2 || feed[0].Recipe.ID != "recipe-new" || feed[1].Recipe.ID != "recipe-old" {
		t.Fatalf("unexpected feed: %+v", feed)
	}

	tagged, err := s.ListPublicRecipes(ctx, store.RecipeFilter{Tag: "dessert"})
	if err != nil {
		t.Fatalf("ListPublicRecipes(tag): %v", err)
	}
	if len(tagged) != 1 || tagged[0].Recipe.ID != "recipe-new" {
		t.Fatalf("unexpected tagged feed: %+v", tagged)
	}

	page, err := s.ListPublicRecipes(ctx, store.RecipeFilter{Page: store.Page{Limit: 1, Offset: 1}})
	if err != nil {
		t.Fatalf("ListPublicRecipes(page): %v", err)
	}
	if len(page) != 1 || page[0].Recipe.ID != "recipe-old" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestListRecipesByOwner_PublicOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "owner", "Ada")
	makeTestRecipe(t, s, "recipe-1", "owner", domain.VisibilityPublic)
	makeTestRecipe(t, s, "recipe-2", "owner", domain.VisibilityPrivate)

	all, err := s.ListRecipesByOwner(ctx, "owner", false)
	if err != nil {
		t.Fatalf("ListRecipesByOwner: %v", err)
	}
	public, err := s.ListRecipesByOwner(ctx, "owner", true)
	if err != nil {
		t.Fatalf("ListRecipesByOwner: %v", err)
	}
	if len(all) != 2 || len(public) != 1 || public[0].Recipe.ID != "recipe-1" {
		t.Errorf("all=%d public=%+v", len(all), public)
	}
}

func TestListMadeAndSharedRecipes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "owner", "Ada")
	makeTestUser(t, s, "cook", "Cook")
	makeTestRecipe(t, s, "recipe-1", "owner", domain.VisibilityPublic)
	makeTestRecipe(t, s, "recipe-2", "owner", domain.VisibilityPrivate)

	if err := s.AddMade(ctx, "cook", "recipe-1", time.Now()); err != nil {
		t.Fatalf("AddMade: %v", err)
	}
	now := time.Now()
	if err := s.UpsertGrant(ctx, &domain.Grant{
		RecipeID: "recipe-2", UserID: "cook", AddedBy: "owner",
		Capabilities: domain.CapabilitySet{CanEdit: true}, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("UpsertGrant: %v", err)
	}

	made, err := s.ListMadeRecipes(ctx, "cook")
	if err != nil {
		t.Fatalf("ListMadeRecipes: %v", err)
	}
	if len(made) != 1 || made[0].Recipe.ID != "recipe-1" {
		t.Errorf("unexpected made list: %+v", made)
	}

	shared, err := s.ListSharedRecipes(ctx, "cook")
	if err != nil {
		t.Fatalf("ListSharedRecipes: %v", err)
	}
	if len(shared) != 1 || shared[0].Recipe.ID != "recipe-2" || !shared[0].Capabilities.CanEdit || shared[0].Capabilities.CanDelete {
		t.Errorf("unexpected shared list: %+v", shared)
	}
}

func TestGetRecipeSummaries_PreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	makeTestUser(t, s, "owner", "Ada")
	makeTestRecipe(t, s, "recipe-a", "owner", domain.VisibilityPublic)
	makeTestRecipe(t, s, "recipe-b", "owner", domain.VisibilityPublic)

	got, err := s.GetRecipeSummaries(ctx, []string{"recipe-b", "missing", "recipe-a"})
	if err != nil {
		t.Fatalf("GetRecipeSummaries: %v", err)
	}
	if len(got) != 2 || got[0].Recipe.ID != "recipe-b" || got[1].Recipe.ID != "recipe-a" {
		t.Errorf("unexpected order: %+v", got)
	}
}
