package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cookfeed/cookfeed-server/internal/api/dto"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

func (s *Server) registerEngagementRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "likeRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes/{id}/like",
		Summary:       "Like recipe",
		Description:   "Likes a recipe. Liking twice answers 409 CONFLICT.",
		Tags:          []string{"Engagement"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleLike)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlikeRecipe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/recipes/{id}/like",
		Summary:     "Unlike recipe",
		Tags:        []string{"Engagement"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnlike)

	huma.Register(s.api, huma.Operation{
		OperationID:   "markMade",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes/{id}/made",
		Summary:       "Mark recipe as made",
		Description:   "Records that the caller cooked the recipe. Marking twice answers 409 CONFLICT.",
		Tags:          []string{"Engagement"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleMarkMade)

	huma.Register(s.api, huma.Operation{
		OperationID: "unmarkMade",
		Method:      http.MethodDelete,
		Path:        "/api/v1/recipes/{id}/made",
		Summary:     "Remove made mark",
		Tags:        []string{"Engagement"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnmarkMade)

	huma.Register(s.api, huma.Operation{
		OperationID: "favoriteRecipe",
		Method:      http.MethodPost,
		Path:        "/api/v1/recipes/{id}/favorite",
		Summary:     "Save recipe",
		Description: "Saves a recipe to a collection, moving it if it is already saved elsewhere. The collection defaults to Favorites.",
		Tags:        []string{"Engagement"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfavoriteRecipe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/recipes/{id}/favorite",
		Summary:     "Unsave recipe",
		Tags:        []string{"Engagement"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List saved recipes",
		Description: "Lists the caller's saved recipes. An empty collection or All Saved returns every saved recipe.",
		Tags:        []string{"Engagement"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFavorites)
}

// === DTOs ===

// LikeResponse carries the live like count after a change.
type LikeResponse struct {
	LikeCount int `json:"like_count" doc:"Number of likes on the recipe"`
}

// LikeOutput wraps the like response for Huma.
type LikeOutput struct {
	Body LikeResponse
}

// FavoriteRequest is the optional body for saving a recipe.
type FavoriteRequest struct {
	Collection string `json:"collection,omitempty" maxLength:"100" doc:"Collection name, defaults to Favorites"`
}

// FavoriteInput wraps the save request for Huma.
type FavoriteInput struct {
	ID   string `path:"id" doc:"Recipe ID"`
	Body *FavoriteRequest
}

// FavoriteResponse is the stored favorite.
type FavoriteResponse struct {
	RecipeID   string    `json:"recipe_id" doc:"Recipe ID"`
	Collection string    `json:"collection" doc:"Collection the recipe is filed under"`
	SavedAt    time.Time `json:"saved_at" doc:"When the recipe was first saved"`
}

// FavoriteOutput wraps the favorite for Huma.
type FavoriteOutput struct {
	Body FavoriteResponse
}

// ListFavoritesInput filters saved recipes by collection.
type ListFavoritesInput struct {
	Collection string `query:"collection" doc:"Collection name; empty or All Saved for everything"`
}

// ListFavoritesResponse contains saved recipes.
type ListFavoritesResponse struct {
	Favorites []dto.Favorite `json:"favorites" doc:"Saved recipes, most recent first"`
}

// ListFavoritesOutput wraps the list for Huma.
type ListFavoritesOutput struct {
	Body ListFavoritesResponse
}

// === Handlers ===

func (s *Server) handleLike(ctx context.Context, input *RecipeIDInput) (*LikeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Engagement.Like(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &LikeOutput{Body: LikeResponse{LikeCount: count}}, nil
}

func (s *Server) handleUnlike(ctx context.Context, input *RecipeIDInput) (*LikeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Engagement.Unlike(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &LikeOutput{Body: LikeResponse{LikeCount: count}}, nil
}

func (s *Server) handleMarkMade(ctx context.Context, input *RecipeIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Engagement.MarkMade(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Marked as made"}}, nil
}

func (s *Server) handleUnmarkMade(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Engagement.UnmarkMade(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleFavorite(ctx context.Context, input *FavoriteInput) (*FavoriteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	var req service.FavoriteRequest
	if input.Body != nil {
		req.Collection = input.Body.Collection
	}

	fav, err := s.services.Engagement.Favorite(ctx, userID, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &FavoriteOutput{
		Body: FavoriteResponse{
			RecipeID:   fav.RecipeID,
			Collection: fav.Collection,
			SavedAt:    fav.CreatedAt,
		},
	}, nil
}

func (s *Server) handleUnfavorite(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Engagement.Unfavorite(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleListFavorites(ctx context.Context, input *ListFavoritesInput) (*ListFavoritesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	favorites, err := s.services.Engagement.ListFavorites(ctx, userID, input.Collection)
	if err != nil {
		return nil, err
	}

	return &ListFavoritesOutput{
		Body: ListFavoritesResponse{Favorites: dto.NewFavorites(favorites)},
	}, nil
}
