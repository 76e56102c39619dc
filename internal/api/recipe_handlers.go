package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cookfeed/cookfeed-server/internal/api/dto"
	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/service"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "Public recipe feed",
		Description: "Lists public recipes, newest first, optionally filtered by tag",
		Tags:        []string{"Recipes"},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes",
		Summary:       "Create recipe",
		Description:   "Creates a recipe owned by the caller. Visibility defaults to public.",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe with the caller's engagement, capabilities and comments. Private recipes answer 403 PRIVATE to outsiders.",
		Tags:        []string{"Recipes"},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPut,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Update recipe",
		Description: "Updates the supplied fields. Requires the edit capability.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRecipe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Delete recipe",
		Description: "Deletes a recipe. Requires the delete capability.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/recipes",
		Summary:     "My recipes",
		Description: "Recipes the caller owns, has made, or may edit through a grant",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyRecipes)
}

// === DTOs ===

// ListRecipesInput contains parameters for the public feed.
type ListRecipesInput struct {
	Tag string `query:"tag" doc:"Only recipes carrying this tag"`
	dto.PaginationParams
}

// ListRecipesOutput contains a page of recipes.
type ListRecipesOutput struct {
	Body dto.ListResponse[dto.Recipe]
}

// CreateRecipeRequest is the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title        string   `json:"title" doc:"Title"`
	Description  string   `json:"description,omitempty" doc:"Short description"`
	Image        string   `json:"image,omitempty" doc:"Image URL or data URI"`
	CookTime     string   `json:"cook_time,omitempty" doc:"Free-form cook time"`
	Servings     string   `json:"servings,omitempty" doc:"Free-form servings"`
	Difficulty   string   `json:"difficulty,omitempty" doc:"Free-form difficulty"`
	Visibility   string   `json:"visibility,omitempty" enum:"public,private" doc:"Defaults to public"`
	Tags         []string `json:"tags,omitempty" doc:"Tags, normalized to slugs"`
	Ingredients  []string `json:"ingredients" doc:"Ingredient lines, at least one"`
	Instructions []string `json:"instructions" doc:"Instruction steps, at least one"`
}

// CreateRecipeInput wraps the create request for Huma.
type CreateRecipeInput struct {
	Body CreateRecipeRequest
}

// UpdateRecipeRequest is a partial update; omitted fields are left alone.
type UpdateRecipeRequest struct {
	Title        *string  `json:"title,omitempty" doc:"Title"`
	Description  *string  `json:"description,omitempty" doc:"Short description"`
	Image        *string  `json:"image,omitempty" doc:"Image URL or data URI"`
	CookTime     *string  `json:"cook_time,omitempty" doc:"Free-form cook time"`
	Servings     *string  `json:"servings,omitempty" doc:"Free-form servings"`
	Difficulty   *string  `json:"difficulty,omitempty" doc:"Free-form difficulty"`
	Visibility   *string  `json:"visibility,omitempty" enum:"public,private" doc:"Who can read the recipe"`
	Tags         []string `json:"tags,omitempty" doc:"Replaces all tags"`
	Ingredients  []string `json:"ingredients,omitempty" doc:"Replaces all ingredients"`
	Instructions []string `json:"instructions,omitempty" doc:"Replaces all instructions"`
}

// UpdateRecipeInput wraps the update request for Huma.
type UpdateRecipeInput struct {
	ID   string `path:"id" doc:"Recipe ID"`
	Body UpdateRecipeRequest
}

// RecipeIDInput identifies a recipe by path.
type RecipeIDInput struct {
	ID string `path:"id" doc:"Recipe ID"`
}

// RecipeOutput contains a single recipe.
type RecipeOutput struct {
	Body dto.Recipe
}

// RecipeDetailResponse is a recipe as the caller sees it.
type RecipeDetailResponse struct {
	dto.Recipe
	Viewer       domain.EngagementState `json:"viewer" doc:"The caller's likes, made mark and favorite"`
	Capabilities dto.Capabilities       `json:"capabilities" doc:"What the caller may do with the recipe"`
	Comments     []dto.Comment          `json:"comments" doc:"Comments, newest first"`
}

// RecipeDetailOutput wraps the detail response for Huma.
type RecipeDetailOutput struct {
	Body RecipeDetailResponse
}

// SharedRecipe is a recipe someone else owns that the caller holds a grant on.
type SharedRecipe struct {
	dto.Recipe
	Capabilities dto.Capabilities `json:"capabilities" doc:"Capabilities granted to the caller"`
}

// MyRecipesResponse groups the caller's recipes.
type MyRecipesResponse struct {
	Own    []dto.Recipe   `json:"own" doc:"Recipes the caller owns"`
	Made   []dto.Recipe   `json:"made" doc:"Recipes the caller marked as made"`
	Shared []SharedRecipe `json:"shared" doc:"Recipes shared with the caller as an editor"`
}

// MyRecipesOutput wraps the response for Huma.
type MyRecipesOutput struct {
	Body MyRecipesResponse
}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*ListRecipesOutput, error) {
	page := input.Page()
	recipes, err := s.services.Recipe.Feed(ctx, service.FeedRequest{
		Tag:    input.Tag,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &ListRecipesOutput{
		Body: dto.ListResponse[dto.Recipe]{
			Items:  dto.NewRecipes(recipes),
			Limit:  page.Limit,
			Offset: page.Offset,
		},
	}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	b := input.Body
	recipe, err := s.services.Recipe.Create(ctx, userID, service.CreateRecipeRequest{
		Title:        b.Title,
		Description:  b.Description,
		Image:        b.Image,
		CookTime:     b.CookTime,
		Servings:     b.Servings,
		Difficulty:   b.Difficulty,
		Visibility:   domain.Visibility(b.Visibility),
		Tags:         b.Tags,
		Ingredients:  b.Ingredients,
		Instructions: b.Instructions,
	})
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: dto.NewRecipe(*recipe)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *RecipeIDInput) (*RecipeDetailOutput, error) {
	detail, err := s.services.Recipe.Get(ctx, OptionalUserID(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	return &RecipeDetailOutput{
		Body: RecipeDetailResponse{
			Recipe:       dto.NewRecipe(detail.RecipeSummary),
			Viewer:       detail.Viewer,
			Capabilities: dto.NewCapabilities(detail.Capabilities),
			Comments:     dto.NewComments(detail.Comments),
		},
	}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	b := input.Body
	req := service.UpdateRecipeRequest{
		Title:        b.Title,
		Description:  b.Description,
		Image:        b.Image,
		CookTime:     b.CookTime,
		Servings:     b.Servings,
		Difficulty:   b.Difficulty,
		Tags:         b.Tags,
		Ingredients:  b.Ingredients,
		Instructions: b.Instructions,
	}
	if b.Visibility != nil {
		v := domain.Visibility(*b.Visibility)
		req.Visibility = &v
	}

	recipe, err := s.services.Recipe.Update(ctx, userID, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: dto.NewRecipe(*recipe)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleListMyRecipes(ctx context.Context, _ *struct{}) (*MyRecipesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	mine, err := s.services.Recipe.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MyRecipesOutput{
		Body: MyRecipesResponse{
			Own:    dto.NewRecipes(mine.Own),
			Made:   dto.NewRecipes(mine.Made),
			Shared: mapSharedRecipes(mine.Shared),
		},
	}, nil
}

func mapSharedRecipes(in []store.SharedRecipe) []SharedRecipe {
	out := make([]SharedRecipe, 0, len(in))
	for _, r := range in {
		out = append(out, SharedRecipe{
			Recipe:       dto.NewRecipe(r.RecipeSummary),
			Capabilities: dto.NewCapabilities(r.Capabilities),
		})
	}
	return out
}
