package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCollections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections",
		Summary:     "List collections",
		Description: "Lists the caller's collections with recipe counts. Favorites comes first and the computed All Saved view last.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCollections)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCollection",
		Method:        http.MethodPost,
		Path:          "/api/v1/collections",
		Summary:       "Create collection",
		Description:   "Creates a named collection. Names are unique per user and Favorites and All Saved are reserved.",
		Tags:          []string{"Collections"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCollection",
		Method:      http.MethodPatch,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Update collection",
		Description: "Renames a collection or changes its visibility. Renaming moves its saved recipes along.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Delete collection",
		Description: "Deletes a collection and moves its saved recipes back to Favorites",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCollection)
}

// === DTOs ===

// CollectionResponse is one entry of the collection list.
type CollectionResponse struct {
	ID          string `json:"id,omitempty" doc:"Collection ID, empty for computed views"`
	Name        string `json:"name" doc:"Collection name"`
	IsPublic    bool   `json:"is_public" doc:"Whether visitors may see recipes saved here"`
	RecipeCount int    `json:"recipe_count" doc:"Number of saved recipes"`
	Computed    bool   `json:"computed" doc:"True for synthetic views such as All Saved"`
}

// ListCollectionsOutput wraps the collection list for Huma.
type ListCollectionsOutput struct {
	Body struct {
		Collections []CollectionResponse `json:"collections" doc:"The caller's collections"`
	}
}

// CreateCollectionRequest is the request body for creating a collection.
type CreateCollectionRequest struct {
	Name     string `json:"name" doc:"Collection name"`
	IsPublic *bool  `json:"is_public,omitempty" doc:"Defaults to true"`
}

// CreateCollectionInput wraps the create request for Huma.
type CreateCollectionInput struct {
	Body CreateCollectionRequest
}

// UpdateCollectionRequest is a partial update.
type UpdateCollectionRequest struct {
	Name     *string `json:"name,omitempty" doc:"New name"`
	IsPublic *bool   `json:"is_public,omitempty" doc:"New visibility"`
}

// UpdateCollectionInput wraps the update request for Huma.
type UpdateCollectionInput struct {
	ID   string `path:"id" doc:"Collection ID"`
	Body UpdateCollectionRequest
}

// CollectionIDInput identifies a collection by path.
type CollectionIDInput struct {
	ID string `path:"id" doc:"Collection ID"`
}

// StoredCollectionResponse is a persisted collection.
type StoredCollectionResponse struct {
	ID        string    `json:"id" doc:"Collection ID"`
	Name      string    `json:"name" doc:"Collection name"`
	IsPublic  bool      `json:"is_public" doc:"Whether visitors may see recipes saved here"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// CollectionOutput wraps a stored collection for Huma.
type CollectionOutput struct {
	Body StoredCollectionResponse
}

// === Handlers ===

func (s *Server) handleListCollections(ctx context.Context, _ *struct{}) (*ListCollectionsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	views, err := s.services.Collection.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &ListCollectionsOutput{}
	out.Body.Collections = make([]CollectionResponse, 0, len(views))
	for _, v := range views {
		out.Body.Collections = append(out.Body.Collections, CollectionResponse{
			ID:          v.ID,
			Name:        v.Name,
			IsPublic:    v.IsPublic,
			RecipeCount: v.RecipeCount,
			Computed:    v.Computed,
		})
	}
	return out, nil
}

func (s *Server) handleCreateCollection(ctx context.Context, input *CreateCollectionInput) (*CollectionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Collection.Create(ctx, userID, service.CreateCollectionRequest{
		Name:     input.Body.Name,
		IsPublic: input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: mapCollection(c)}, nil
}

func (s *Server) handleUpdateCollection(ctx context.Context, input *UpdateCollectionInput) (*CollectionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Collection.Update(ctx, userID, input.ID, service.UpdateCollectionRequest{
		Name:     input.Body.Name,
		IsPublic: input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: mapCollection(c)}, nil
}

func (s *Server) handleDeleteCollection(ctx context.Context, input *CollectionIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Collection.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func mapCollection(c *domain.Collection) StoredCollectionResponse {
	return StoredCollectionResponse{
		ID:        c.ID,
		Name:      c.Name,
		IsPublic:  c.IsPublic,
		CreatedAt: c.CreatedAt,
	}
}
