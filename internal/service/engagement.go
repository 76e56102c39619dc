package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// EngagementService records likes, made markers and favorites.
//
// Likes and made markers reject duplicates with a Conflict; the unique key
// in the store decides, so racing requests get the same answer. Favorites
// upsert: saving again moves the recipe to another collection.
type EngagementService struct {
	store  store.Store
	policy *policy.Policy
	logger *slog.Logger
}

// NewEngagementService creates an engagement service.
func NewEngagementService(store store.Store, policy *policy.Policy, logger *slog.Logger) *EngagementService {
	return &EngagementService{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// FavoriteRequest files a recipe under a collection. Empty means Favorites.
type FavoriteRequest struct {
	Collection string `json:"collection" validate:"max=100"`
}

// Like records userID's like and returns the recipe's new like count.
func (s *EngagementService) Like(ctx context.Context, userID, recipeID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, _, err := requireReadable(ctx, s.store, s.policy, recipeID, userID); err != nil {
		return 0, err
	}

	if err := s.store.AddLike(ctx, userID, recipeID, now()); err != nil {
		return 0, conflict(err, "already liked", "recipe not found", "add like")
	}

	count, err := s.store.CountLikes(ctx, recipeID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	s.logger.Debug("Recipe liked", "recipe_id", recipeID, "user_id", userID, "likes", count)
	return count, nil
}

// Unlike removes userID's like, if any, and returns the new like count.
func (s *EngagementService) Unlike(ctx context.Context, userID, recipeID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := s.store.RemoveLike(ctx, userID, recipeID); err != nil {
		return 0, fmt.Errorf("remove like: %w", err)
	}

	count, err := s.store.CountLikes(ctx, recipeID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// MarkMade records that userID cooked the recipe.
func (s *EngagementService) MarkMade(ctx context.Context, userID, recipeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := requireReadable(ctx, s.store, s.policy, recipeID, userID); err != nil {
		return err
	}

	if err := s.store.AddMade(ctx, userID, recipeID, now()); err != nil {
		return conflict(err, "already marked as made", "recipe not found", "add made")
	}

	s.logger.Debug("Recipe made", "recipe_id", recipeID, "user_id", userID)
	return nil
}

// UnmarkMade removes the made marker, if any.
func (s *EngagementService) UnmarkMade(ctx context.Context, userID, recipeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.RemoveMade(ctx, userID, recipeID); err != nil {
		return fmt.Errorf("remove made: %w", err)
	}
	return nil
}

// Favorite saves the recipe into req.Collection, or moves it there when it
// is already saved. The computed All Saved view is not a valid target.
func (s *EngagementService) Favorite(ctx context.Context, userID, recipeID string, req FavoriteRequest) (*domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	collection := strings.TrimSpace(req.Collection)
	switch {
	case collection == "":
		collection = domain.DefaultCollection
	case strings.EqualFold(collection, domain.AllSavedCollection):
		return nil, domainerrors.Validationf("%q cannot hold recipes directly", domain.AllSavedCollection)
	case strings.EqualFold(collection, domain.DefaultCollection):
		collection = domain.DefaultCollection
	}

	if _, _, err := requireReadable(ctx, s.store, s.policy, recipeID, userID); err != nil {
		return nil, err
	}

	fav := &domain.Favorite{
		UserID:     userID,
		RecipeID:   recipeID,
		Collection: collection,
		CreatedAt:  now(),
	}
	if err := s.store.SaveFavorite(ctx, fav); err != nil {
		return nil, notFound(err, "recipe not found", "save favorite")
	}

	saved, err := s.store.GetFavorite(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("reload favorite: %w", err)
	}

	s.logger.Debug("Recipe favorited",
		"recipe_id", recipeID,
		"user_id", userID,
		"collection", collection,
	)
	return saved, nil
}

// Unfavorite removes the recipe from userID's favorites, if present.
func (s *EngagementService) Unfavorite(ctx context.Context, userID, recipeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.RemoveFavorite(ctx, userID, recipeID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// ListFavorites returns userID's favorites in one collection. An empty
// collection or All Saved returns every favorite.
func (s *EngagementService) ListFavorites(ctx context.Context, userID, collection string) ([]store.FavoriteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collection = strings.TrimSpace(collection)
	if strings.EqualFold(collection, domain.AllSavedCollection) {
		collection = ""
	}

	favorites, err := s.store.ListFavorites(ctx, userID, collection)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if favorites == nil {
		favorites = []store.FavoriteEntry{}
	}
	return favorites, nil
}

// isNotFound reports whether err is a store miss.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
