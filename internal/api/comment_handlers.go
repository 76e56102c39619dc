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

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}/comments",
		Summary:     "List comments",
		Description: "Lists comments on a readable recipe, newest first",
		Tags:        []string{"Comments"},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addComment",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes/{id}/comments",
		Summary:       "Add comment",
		Description:   "Comments on a recipe. Fails with 403 when the owner disabled comments.",
		Tags:          []string{"Comments"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "editComment",
		Method:      http.MethodPut,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Edit comment",
		Description: "Edits a comment. Only its author may edit it.",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleEditComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Delete comment",
		Description: "Deletes a comment. Its author and the recipe owner may delete it.",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)
}

// === DTOs ===

// CommentRequest is the body for adding or editing a comment.
type CommentRequest struct {
	Content string `json:"content" doc:"Comment text, up to 2000 characters"`
}

// AddCommentInput wraps a new comment for Huma.
type AddCommentInput struct {
	ID   string `path:"id" doc:"Recipe ID"`
	Body CommentRequest
}

// EditCommentInput wraps an edit for Huma.
type EditCommentInput struct {
	ID   string `path:"id" doc:"Comment ID"`
	Body CommentRequest
}

// CommentIDInput identifies a comment by path.
type CommentIDInput struct {
	ID string `path:"id" doc:"Comment ID"`
}

// CommentResponse is a stored comment.
type CommentResponse struct {
	ID        string    `json:"id" doc:"Comment ID"`
	RecipeID  string    `json:"recipe_id" doc:"Recipe ID"`
	UserID    string    `json:"user_id" doc:"Author's user ID"`
	Content   string    `json:"content" doc:"Comment text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last edit timestamp"`
}

// CommentOutput wraps a comment for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// ListCommentsResponse contains a recipe's comments.
type ListCommentsResponse struct {
	Comments []dto.Comment `json:"comments" doc:"Comments, newest first"`
}

// ListCommentsOutput wraps the list for Huma.
type ListCommentsOutput struct {
	Body ListCommentsResponse
}

// === Handlers ===

func (s *Server) handleListComments(ctx context.Context, input *RecipeIDInput) (*ListCommentsOutput, error) {
	comments, err := s.services.Comment.List(ctx, OptionalUserID(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &ListCommentsOutput{
		Body: ListCommentsResponse{Comments: dto.NewComments(comments)},
	}, nil
}

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Comment.Add(ctx, userID, input.ID, service.CommentRequest{Content: input.Body.Content})
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: mapComment(comment)}, nil
}

func (s *Server) handleEditComment(ctx context.Context, input *EditCommentInput) (*CommentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Comment.Edit(ctx, userID, input.ID, service.CommentRequest{Content: input.Body.Content})
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: mapComment(comment)}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Comment.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func mapComment(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
