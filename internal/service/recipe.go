package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/id"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/store"
	"github.com/cookfeed/cookfeed-server/internal/tags"
)

// RecipeIndexer keeps a secondary index in step with recipe writes.
// Failures are the indexer's to log; they never fail the write.
type RecipeIndexer interface {
	IndexRecipe(ctx context.Context, recipe *domain.Recipe, authorName string)
	RemoveRecipe(ctx context.Context, recipeID string)
}

// RecipeService manages recipes and their read and write access.
type RecipeService struct {
	store   store.Store
	policy  *policy.Policy
	indexer RecipeIndexer
	logger  *slog.Logger
}

// NewRecipeService creates a recipe service. indexer may be nil.
func NewRecipeService(store store.Store, policy *policy.Policy, indexer RecipeIndexer, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:   store,
		policy:  policy,
		indexer: indexer,
		logger:  logger,
	}
}

// CreateRecipeRequest holds the fields of a new recipe.
type CreateRecipeRequest struct {
	Title        string            `json:"title" validate:"required,notblank,max=200"`
	Description  string            `json:"description" validate:"max=5000"`
	Image        string            `json:"image" validate:"max=2048"`
	CookTime     string            `json:"cook_time" validate:"max=50"`
	Servings     string            `json:"servings" validate:"max=50"`
	Difficulty   string            `json:"difficulty" validate:"max=50"`
	Visibility   domain.Visibility `json:"visibility" validate:"omitempty,visibility"`
	Tags         []string          `json:"tags" validate:"max=50,dive,max=50"`
	Ingredients  []string          `json:"ingredients" validate:"required,min=1,max=200,dive,notblank,max=500"`
	Instructions []string          `json:"instructions" validate:"required,min=1,max=200,dive,notblank,max=5000"`
}

// UpdateRecipeRequest is a partial update. Nil fields are left unchanged.
type UpdateRecipeRequest struct {
	Title        *string            `json:"title" validate:"omitempty,notblank,max=200"`
	Description  *string            `json:"description" validate:"omitempty,max=5000"`
	Image        *string            `json:"image" validate:"omitempty,max=2048"`
	CookTime     *string            `json:"cook_time" validate:"omitempty,max=50"`
	Servings     *string            `json:"servings" validate:"omitempty,max=50"`
	Difficulty   *string            `json:"difficulty" validate:"omitempty,max=50"`
	Visibility   *domain.Visibility `json:"visibility" validate:"omitempty,visibility"`
	Tags         []string           `json:"tags" validate:"omitempty,max=50,dive,max=50"`
	Ingredients  []string           `json:"ingredients" validate:"omitempty,max=200,dive,notblank,max=500"`
	Instructions []string           `json:"instructions" validate:"omitempty,max=200,dive,notblank,max=5000"`
}

// FeedRequest selects a page of the public feed.
type FeedRequest struct {
	Tag    string
	Limit  int
	Offset int
}

// RecipeDetail is a recipe as one viewer sees it.
type RecipeDetail struct {
	store.RecipeSummary
	Viewer       domain.EngagementState
	Capabilities domain.CapabilitySet
	Comments     []store.CommentEntry
}

// MyRecipes groups the recipes a user has a stake in.
type MyRecipes struct {
	Own    []store.RecipeSummary
	Made   []store.RecipeSummary
	Shared []store.SharedRecipe
}

// Feed returns public recipes, newest first.
func (s *RecipeService) Feed(ctx context.Context, req FeedRequest) ([]store.RecipeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipes, err := s.store.ListPublicRecipes(ctx, store.RecipeFilter{
		Tag:  tags.Slugify(req.Tag),
		Page: store.Page{Limit: req.Limit, Offset: req.Offset}.Normalize(),
	})
	if err != nil {
		return nil, fmt.Errorf("list public recipes: %w", err)
	}
	return recipes, nil
}

// Create stores a new recipe owned by ownerID. Visibility defaults to public.
func (s *RecipeService) Create(ctx context.Context, ownerID string, req CreateRecipeRequest) (*store.RecipeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	recipeID, err := id.Generate(id.PrefixRecipe)
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}

	t := now()
	recipe := &domain.Recipe{
		ID:           recipeID,
		OwnerID:      ownerID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Image:        req.Image,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		Visibility:   visibility,
		Tags:         tags.Normalize(req.Tags),
		Ingredients:  trimAll(req.Ingredients),
		Instructions: trimAll(req.Instructions),
		CreatedAt:    t,
		UpdatedAt:    t,
	}

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, notFound(err, "user not found", "create recipe")
	}

	summary, err := s.store.GetRecipeSummary(ctx, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("reload recipe: %w", err)
	}
	s.index(ctx, &summary.Recipe, summary.Author.Name)

	s.logger.Info("Recipe created",
		"recipe_id", recipe.ID,
		"user_id", ownerID,
		"visibility", recipe.Visibility,
	)
	return summary, nil
}

// Get returns a recipe as viewerID sees it. viewerID may be empty for
// anonymous readers. A private recipe the viewer may not read fails with
// a PRIVATE error naming its owner, never with NotFound.
func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID string) (*RecipeDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary, err := s.store.GetRecipeSummary(ctx, recipeID)
	if err != nil {
		return nil, notFound(err, "recipe not found", "get recipe")
	}
	recipe := &summary.Recipe

	grant, err := loadGrant(ctx, s.store, recipe, viewerID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanReadRecipe(viewerID, recipe, grant) {
		return nil, domainerrors.Private("this recipe is private", recipe.OwnerID, summary.Author.Name)
	}

	detail := &RecipeDetail{
		RecipeSummary: *summary,
		Capabilities:  s.policy.Capabilities(viewerID, recipe, grant),
	}

	if viewerID != "" {
		detail.Viewer, err = s.store.GetEngagement(ctx, viewerID, recipeID)
		if err != nil {
			return nil, fmt.Errorf("get engagement: %w", err)
		}
	}

	detail.Comments, err = s.store.ListComments(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return detail, nil
}

// Update applies req to a recipe. The requester needs the edit capability.
func (s *RecipeService) Update(ctx context.Context, requesterID, recipeID string, req UpdateRecipeRequest) (*store.RecipeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.Ingredients != nil && len(req.Ingredients) == 0 {
		return nil, domainerrors.ValidationWithDetails("validation failed: ingredients",
			map[string]string{"ingredients": "must contain at least 1 items"})
	}
	if req.Instructions != nil && len(req.Instructions) == 0 {
		return nil, domainerrors.ValidationWithDetails("validation failed: instructions",
			map[string]string{"instructions": "must contain at least 1 items"})
	}

	update := req.toDomain()
	if update.IsEmpty() {
		return nil, domainerrors.NoFieldsToUpdate()
	}

	recipe, grant, err := loadRecipeAccess(ctx, s.store, recipeID, requesterID)
	if err != nil {
		return nil, err
	}
	if !s.policy.Can(requesterID, recipe, grant, domain.CapabilityEdit) {
		return nil, domainerrors.Forbidden("you do not have permission to edit this recipe")
	}

	update.Apply(recipe)
	recipe.UpdatedAt = now()

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, notFound(err, "recipe not found", "update recipe")
	}

	summary, err := s.store.GetRecipeSummary(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("reload recipe: %w", err)
	}
	s.index(ctx, &summary.Recipe, summary.Author.Name)

	s.logger.Info("Recipe updated", "recipe_id", recipeID, "user_id", requesterID)
	return summary, nil
}

// Delete removes a recipe. The requester needs the delete capability.
func (s *RecipeService) Delete(ctx context.Context, requesterID, recipeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	recipe, grant, err := loadRecipeAccess(ctx, s.store, recipeID, requesterID)
	if err != nil {
		return err
	}
	if !s.policy.Can(requesterID, recipe, grant, domain.CapabilityDelete) {
		return domainerrors.Forbidden("you do not have permission to delete this recipe")
	}

	if err := s.store.DeleteRecipe(ctx, recipeID); err != nil {
		return notFound(err, "recipe not found", "delete recipe")
	}
	if s.indexer != nil {
		s.indexer.RemoveRecipe(ctx, recipeID)
	}

	s.logger.Info("Recipe deleted", "recipe_id", recipeID, "user_id", requesterID)
	return nil
}

// ListMine returns the recipes userID owns, has made, and may edit.
func (s *RecipeService) ListMine(ctx context.Context, userID string) (*MyRecipes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	own, err := s.store.ListRecipesByOwner(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("list own recipes: %w", err)
	}
	made, err := s.store.ListMadeRecipes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list made recipes: %w", err)
	}
	shared, err := s.store.ListSharedRecipes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shared recipes: %w", err)
	}

	return &MyRecipes{Own: own, Made: made, Shared: shared}, nil
}

func (s *RecipeService) index(ctx context.Context, recipe *domain.Recipe, authorName string) {
	if s.indexer != nil {
		s.indexer.IndexRecipe(ctx, recipe, authorName)
	}
}

func (r UpdateRecipeRequest) toDomain() domain.RecipeUpdate {
	u := domain.RecipeUpdate{
		Description: r.Description,
		Image:       r.Image,
		CookTime:    r.CookTime,
		Servings:    r.Servings,
		Difficulty:  r.Difficulty,
		Visibility:  r.Visibility,
	}
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		u.Title = &title
	}
	if r.Tags != nil {
		normalized := tags.Normalize(r.Tags)
		u.Tags = &normalized
	}
	if r.Ingredients != nil {
		ingredients := trimAll(r.Ingredients)
		u.Ingredients = &ingredients
	}
	if r.Instructions != nil {
		instructions := trimAll(r.Instructions)
		u.Instructions = &instructions
	}
	return u
}

// loadRecipeAccess loads a recipe and userID's grant on it.
// A missing recipe is NotFound; a missing grant is nil.
func loadRecipeAccess(ctx context.Context, st store.Store, recipeID, userID string) (*domain.Recipe, *domain.Grant, error) {
	recipe, err := st.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, nil, notFound(err, "recipe not found", "get recipe")
	}
	grant, err := loadGrant(ctx, st, recipe, userID)
	if err != nil {
		return nil, nil, err
	}
	return recipe, grant, nil
}

// loadGrant returns userID's grant on recipe, or nil when there is none,
// the user is anonymous, or the user owns the recipe.
func loadGrant(ctx context.Context, st store.Store, recipe *domain.Recipe, userID string) (*domain.Grant, error) {
	if userID == "" || recipe.IsOwnedBy(userID) {
		return nil, nil
	}
	grant, err := st.GetGrant(ctx, recipe.ID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grant: %w", err)
	}
	return grant, nil
}

// requireReadable loads a recipe and fails unless viewerID may read it.
func requireReadable(ctx context.Context, st store.Store, pol *policy.Policy, recipeID, viewerID string) (*domain.Recipe, *domain.Grant, error) {
	recipe, grant, err := loadRecipeAccess(ctx, st, recipeID, viewerID)
	if err != nil {
		return nil, nil, err
	}
	if pol.CanReadRecipe(viewerID, recipe, grant) {
		return recipe, grant, nil
	}

	ownerName := ""
	if owner, err := st.GetUser(ctx, recipe.OwnerID); err == nil {
		ownerName = owner.DisplayName()
	}
	return nil, nil, domainerrors.Private("this recipe is private", recipe.OwnerID, ownerName)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
