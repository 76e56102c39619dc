package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cookfeed/cookfeed-server/internal/api/dto"
	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

func (s *Server) registerEditorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEditors",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}/editors",
		Summary:     "List editors",
		Description: "Lists collaborators on a recipe. Requires ownership or manage_editors.",
		Tags:        []string{"Editors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListEditors)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addEditor",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes/{id}/editors",
		Summary:       "Grant editor",
		Description:   "Grants a user capabilities on a recipe, replacing any grant they already hold",
		Tags:          []string{"Editors"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleAddEditor)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEditor",
		Method:      http.MethodPut,
		Path:        "/api/v1/recipes/{id}/editors/{userId}",
		Summary:     "Update editor",
		Description: "Replaces the capabilities of an existing grant",
		Tags:        []string{"Editors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateEditor)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeEditor",
		Method:      http.MethodDelete,
		Path:        "/api/v1/recipes/{id}/editors/{userId}",
		Summary:     "Revoke editor",
		Description: "Revokes a grant. Editors may always remove themselves.",
		Tags:        []string{"Editors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveEditor)
}

// === DTOs ===

// EditorResponse is one collaborator on a recipe.
type EditorResponse struct {
	User         dto.UserRef      `json:"user" doc:"Grantee"`
	Capabilities dto.Capabilities `json:"capabilities" doc:"Granted capabilities"`
	AddedBy      string           `json:"added_by" doc:"User who issued the grant"`
	CreatedAt    time.Time        `json:"created_at" doc:"When the grant was issued"`
	UpdatedAt    time.Time        `json:"updated_at" doc:"When the grant last changed"`
}

// EditorListResponse contains a recipe's editors.
type EditorListResponse struct {
	Editors []EditorResponse `json:"editors" doc:"Collaborators"`
	IsOwner bool             `json:"is_owner" doc:"Whether the caller owns the recipe"`
}

// EditorListOutput wraps the list for Huma.
type EditorListOutput struct {
	Body EditorListResponse
}

// AddEditorRequest is the request body for granting capabilities.
type AddEditorRequest struct {
	UserID string `json:"user_id" doc:"User to grant"`
	dto.Capabilities
}

// AddEditorInput wraps the grant request for Huma.
type AddEditorInput struct {
	ID   string `path:"id" doc:"Recipe ID"`
	Body AddEditorRequest
}

// UpdateEditorInput wraps the capability update for Huma.
type UpdateEditorInput struct {
	ID     string `path:"id" doc:"Recipe ID"`
	UserID string `path:"userId" doc:"Grantee user ID"`
	Body   dto.Capabilities
}

// EditorPathInput identifies a grant by path.
type EditorPathInput struct {
	ID     string `path:"id" doc:"Recipe ID"`
	UserID string `path:"userId" doc:"Grantee user ID"`
}

// GrantResponse is a stored grant.
type GrantResponse struct {
	RecipeID     string           `json:"recipe_id" doc:"Recipe ID"`
	UserID       string           `json:"user_id" doc:"Grantee user ID"`
	Capabilities dto.Capabilities `json:"capabilities" doc:"Granted capabilities"`
	AddedBy      string           `json:"added_by" doc:"User who issued the grant"`
	CreatedAt    time.Time        `json:"created_at" doc:"When the grant was issued"`
	UpdatedAt    time.Time        `json:"updated_at" doc:"When the grant last changed"`
}

// GrantOutput wraps a grant for Huma.
type GrantOutput struct {
	Body GrantResponse
}

// === Handlers ===

func (s *Server) handleListEditors(ctx context.Context, input *RecipeIDInput) (*EditorListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Collaboration.ListGrants(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	editors := make([]EditorResponse, 0, len(list.Editors))
	for _, e := range list.Editors {
		editors = append(editors, EditorResponse{
			User:         dto.NewUserRef(e.User),
			Capabilities: dto.NewCapabilities(e.Grant.Capabilities),
			AddedBy:      e.Grant.AddedBy,
			CreatedAt:    e.Grant.CreatedAt,
			UpdatedAt:    e.Grant.UpdatedAt,
		})
	}

	return &EditorListOutput{
		Body: EditorListResponse{Editors: editors, IsOwner: list.IsOwner},
	}, nil
}

func (s *Server) handleAddEditor(ctx context.Context, input *AddEditorInput) (*GrantOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	grant, err := s.services.Collaboration.Grant(ctx, userID, input.ID, service.GrantRequest{
		UserID:        input.Body.UserID,
		CapabilitySet: input.Body.ToDomain(),
	})
	if err != nil {
		return nil, err
	}

	return &GrantOutput{Body: mapGrant(grant)}, nil
}

func (s *Server) handleUpdateEditor(ctx context.Context, input *UpdateEditorInput) (*GrantOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	grant, err := s.services.Collaboration.UpdateGrant(ctx, userID, input.ID, input.UserID, input.Body.ToDomain())
	if err != nil {
		return nil, err
	}

	return &GrantOutput{Body: mapGrant(grant)}, nil
}

func (s *Server) handleRemoveEditor(ctx context.Context, input *EditorPathInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Collaboration.RevokeGrant(ctx, userID, input.ID, input.UserID); err != nil {
		return nil, err
	}
	return nil, nil
}

func mapGrant(g *domain.Grant) GrantResponse {
	return GrantResponse{
		RecipeID:     g.RecipeID,
		UserID:       g.UserID,
		Capabilities: dto.NewCapabilities(g.Capabilities),
		AddedBy:      g.AddedBy,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}
