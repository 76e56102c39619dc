package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// CollaborationService manages the editors of a recipe: who besides the
// owner may edit it, delete it, or manage its editors.
type CollaborationService struct {
	store  store.Store
	policy *policy.Policy
	logger *slog.Logger
}

// NewCollaborationService creates a collaboration service.
func NewCollaborationService(store store.Store, policy *policy.Policy, logger *slog.Logger) *CollaborationService {
	return &CollaborationService{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// GrantRequest names a grantee and the capabilities they receive.
type GrantRequest struct {
	UserID string `json:"user_id" validate:"required"`
	domain.CapabilitySet
}

// EditorList is the editors of a recipe plus whether the caller owns it.
type EditorList struct {
	Editors []store.EditorEntry
	IsOwner bool
}

// Grant gives req.UserID the requested capabilities on recipeID, replacing
// any grant they already hold. The granter must own the recipe or hold
// manage_editors.
func (s *CollaborationService) Grant(ctx context.Context, granterID, recipeID string, req GrantRequest) (*domain.Grant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	recipe, err := s.authorizeManage(ctx, granterID, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.IsOwnedBy(req.UserID) {
		return nil, domainerrors.Validation("the recipe owner cannot be added as an editor")
	}
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return nil, notFound(err, "user not found", "get grantee")
	}

	t := now()
	grant := &domain.Grant{
		RecipeID:     recipeID,
		UserID:       req.UserID,
		Capabilities: req.CapabilitySet,
		AddedBy:      granterID,
		CreatedAt:    t,
		UpdatedAt:    t,
	}
	if err := s.store.UpsertGrant(ctx, grant); err != nil {
		return nil, notFound(err, "recipe or user not found", "upsert grant")
	}

	stored, err := s.store.GetGrant(ctx, recipeID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("reload grant: %w", err)
	}

	s.logger.Info("Recipe editor granted",
		"recipe_id", recipeID,
		"user_id", req.UserID,
		"granted_by", granterID,
		"can_edit", grant.Capabilities.CanEdit,
		"can_delete", grant.Capabilities.CanDelete,
		"can_manage_editors", grant.Capabilities.CanManageEditors,
	)
	return stored, nil
}

// UpdateGrant changes the capabilities of an existing grant. added_by is
// kept. Authorization is the same as Grant.
func (s *CollaborationService) UpdateGrant(ctx context.Context, actorID, recipeID, targetID string, caps domain.CapabilitySet) (*domain.Grant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipe, err := s.authorizeManage(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.IsOwnedBy(targetID) {
		return nil, domainerrors.Validation("the recipe owner has no editor grant")
	}

	if err := s.store.UpdateGrant(ctx, recipeID, targetID, caps, now()); err != nil {
		return nil, notFound(err, "editor not found", "update grant")
	}

	grant, err := s.store.GetGrant(ctx, recipeID, targetID)
	if err != nil {
		return nil, fmt.Errorf("reload grant: %w", err)
	}

	s.logger.Info("Recipe editor updated",
		"recipe_id", recipeID,
		"user_id", targetID,
		"updated_by", actorID,
	)
	return grant, nil
}

// RevokeGrant removes targetID's grant. Managers may remove anyone; every
// editor may always remove themselves. Revoking a grant that does not
// exist succeeds.
func (s *CollaborationService) RevokeGrant(ctx context.Context, actorID, recipeID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if targetID == "" {
		return domainerrors.Validation("user_id is required")
	}

	recipe, grant, err := loadRecipeAccess(ctx, s.store, recipeID, actorID)
	if err != nil {
		return err
	}

	caps := s.policy.Capabilities(actorID, recipe, grant)
	if !s.policy.CanRevokeGrant(actorID, targetID, caps) {
		return domainerrors.Forbidden("you do not have permission to remove editors from this recipe")
	}

	removed, err := s.store.DeleteGrant(ctx, recipeID, targetID)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}

	if removed {
		s.logger.Info("Recipe editor removed",
			"recipe_id", recipeID,
			"user_id", targetID,
			"removed_by", actorID,
			"self", actorID == targetID,
		)
	}
	return nil
}

// ListGrants returns a recipe's editors. Only the owner and editors with
// manage_editors may see them.
func (s *CollaborationService) ListGrants(ctx context.Context, actorID, recipeID string) (*EditorList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipe, err := s.authorizeManage(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	editors, err := s.store.ListGrants(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}

	return &EditorList{Editors: editors, IsOwner: recipe.IsOwnedBy(actorID)}, nil
}

// authorizeManage loads the recipe and fails unless actorID may manage its
// editors. A missing recipe is NotFound, insufficient rights Forbidden.
func (s *CollaborationService) authorizeManage(ctx context.Context, actorID, recipeID string) (*domain.Recipe, error) {
	recipe, grant, err := loadRecipeAccess(ctx, s.store, recipeID, actorID)
	if err != nil {
		return nil, err
	}
	if !s.policy.Can(actorID, recipe, grant, domain.CapabilityManageEditors) {
		return nil, domainerrors.Forbidden("you do not have permission to manage editors of this recipe")
	}
	return recipe, nil
}
