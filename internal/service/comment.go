package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/id"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// CommentService manages comments on recipes.
type CommentService struct {
	store  store.Store
	policy *policy.Policy
	logger *slog.Logger
}

// NewCommentService creates a comment service.
func NewCommentService(store store.Store, policy *policy.Policy, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// CommentRequest carries the text of a new or edited comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}

// List returns a readable recipe's comments, newest first.
func (s *CommentService) List(ctx context.Context, viewerID, recipeID string) ([]store.CommentEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, _, err := requireReadable(ctx, s.store, s.policy, recipeID, viewerID); err != nil {
		return nil, err
	}

	comments, err := s.store.ListComments(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []store.CommentEntry{}
	}
	return comments, nil
}

// Add posts a comment. The recipe must be readable and its owner must
// allow comments; the owner may always comment on their own recipe.
func (s *CommentService) Add(ctx context.Context, userID, recipeID string, req CommentRequest) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	recipe, grant, err := requireReadable(ctx, s.store, s.policy, recipeID, userID)
	if err != nil {
		return nil, err
	}
	ownerPrefs, err := loadPreferences(ctx, s.store, recipe.OwnerID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanComment(userID, recipe, grant, ownerPrefs) {
		return nil, domainerrors.Forbidden("comments are disabled for this recipe")
	}

	commentID, err := id.Generate(id.PrefixComment)
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	t := now()
	comment := &domain.Comment{
		ID:        commentID,
		RecipeID:  recipeID,
		UserID:    userID,
		Content:   strings.TrimSpace(req.Content),
		CreatedAt: t,
		UpdatedAt: t,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, notFound(err, "recipe not found", "create comment")
	}

	s.logger.Info("Comment added",
		"comment_id", commentID,
		"recipe_id", recipeID,
		"user_id", userID,
	)
	return comment, nil
}

// Edit replaces a comment's content. Only its author may.
func (s *CommentService) Edit(ctx context.Context, userID, commentID string, req CommentRequest) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "comment not found", "get comment")
	}
	if !s.policy.CanEditComment(userID, comment) {
		return nil, domainerrors.Forbidden("you can only edit your own comments")
	}

	t := now()
	content := strings.TrimSpace(req.Content)
	if err := s.store.UpdateComment(ctx, commentID, content, t); err != nil {
		return nil, notFound(err, "comment not found", "update comment")
	}
	comment.Content = content
	comment.UpdatedAt = t

	s.logger.Info("Comment edited", "comment_id", commentID, "user_id", userID)
	return comment, nil
}

// Delete removes a comment. Its author and the recipe owner may.
func (s *CommentService) Delete(ctx context.Context, userID, commentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return notFound(err, "comment not found", "get comment")
	}
	recipe, err := s.store.GetRecipe(ctx, comment.RecipeID)
	if err != nil {
		return notFound(err, "recipe not found", "get recipe")
	}
	if !s.policy.CanDeleteComment(userID, comment, recipe) {
		return domainerrors.Forbidden("you do not have permission to delete this comment")
	}

	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.logger.Info("Comment deleted",
		"comment_id", commentID,
		"recipe_id", comment.RecipeID,
		"user_id", userID,
	)
	return nil
}
