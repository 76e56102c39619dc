package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/id"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// CollectionService manages a user's named favorite collections.
type CollectionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store store.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:  store,
		logger: logger,
	}
}

// CreateCollectionRequest holds a new collection. IsPublic defaults to true.
type CreateCollectionRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	IsPublic *bool  `json:"is_public"`
}

// UpdateCollectionRequest is a partial update. Nil fields are left unchanged.
type UpdateCollectionRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=100"`
	IsPublic *bool   `json:"is_public"`
}

// CollectionView is one entry of a user's collection list.
// Computed entries (All Saved) have no ID and cannot be changed.
type CollectionView struct {
	ID          string
	Name        string
	IsPublic    bool
	RecipeCount int
	Computed    bool
}

// List returns ownerID's collections. Favorites is always first, followed by
// the user's own collections and finally the computed All Saved view.
func (s *CollectionService) List(ctx context.Context, ownerID string) ([]CollectionView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored, err := s.store.ListCollections(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	// Accounts created before collections existed have no Favorites row.
	if !hasCollection(stored, domain.DefaultCollection) {
		if err := s.ensureDefault(ctx, ownerID); err != nil {
			return nil, err
		}
		if stored, err = s.store.ListCollections(ctx, ownerID); err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
	}

	views := make([]CollectionView, 0, len(stored)+1)
	for _, c := range stored {
		views = append(views, CollectionView{
			ID:          c.Collection.ID,
			Name:        c.Collection.Name,
			IsPublic:    c.Collection.IsPublic,
			RecipeCount: c.RecipeCount,
		})
	}

	total, err := s.store.CountFavorites(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}
	views = append(views, CollectionView{
		Name:        domain.AllSavedCollection,
		RecipeCount: total,
		Computed:    true,
	})

	return views, nil
}

// ensureDefault creates ownerID's public Favorites collection if it is
// missing.
func (s *CollectionService) ensureDefault(ctx context.Context, ownerID string) error {
	collectionID, err := id.Generate(id.PrefixCollection)
	if err != nil {
		return fmt.Errorf("generate collection ID: %w", err)
	}

	err = s.store.EnsureCollection(ctx, &domain.Collection{
		ID:        collectionID,
		OwnerID:   ownerID,
		Name:      domain.DefaultCollection,
		IsPublic:  true,
		CreatedAt: now(),
	})
	if err != nil {
		return fmt.Errorf("ensure default collection: %w", err)
	}

	s.logger.Info("Default collection restored", "user_id", ownerID)
	return nil
}

func hasCollection(stored []store.CollectionSummary, name string) bool {
	for _, c := range stored {
		if c.Collection.Name == name {
			return true
		}
	}
	return false
}

// Create adds a collection. Names are unique per owner and the built-in
// names are reserved.
func (s *CollectionService) Create(ctx context.Context, ownerID string, req CreateCollectionRequest) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if domain.IsReservedCollectionName(name) {
		return nil, domainerrors.Validationf("%q is a reserved collection name", name)
	}

	collectionID, err := id.Generate(id.PrefixCollection)
	if err != nil {
		return nil, fmt.Errorf("generate collection ID: %w", err)
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	c := &domain.Collection{
		ID:        collectionID,
		OwnerID:   ownerID,
		Name:      name,
		IsPublic:  isPublic,
		CreatedAt: now(),
	}
	if err := s.store.CreateCollection(ctx, c); err != nil {
		return nil, conflict(err, "a collection with this name already exists", "user not found", "create collection")
	}

	s.logger.Info("Collection created",
		"collection_id", collectionID,
		"user_id", ownerID,
		"is_public", isPublic,
	)
	return c, nil
}

// Update renames a collection and/or flips its visibility. Favorites may
// change visibility but never its name, and nothing may take a reserved name.
func (s *CollectionService) Update(ctx context.Context, ownerID, collectionID string, req UpdateCollectionRequest) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	update := domain.CollectionUpdate{IsPublic: req.IsPublic}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		update.Name = &name
	}
	if update.IsEmpty() {
		return nil, domainerrors.NoFieldsToUpdate()
	}

	current, err := s.getOwned(ctx, ownerID, collectionID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != current.Name {
		if current.Name == domain.DefaultCollection {
			return nil, domainerrors.Validationf("%q cannot be renamed", domain.DefaultCollection)
		}
		if domain.IsReservedCollectionName(*update.Name) {
			return nil, domainerrors.Validationf("%q is a reserved collection name", *update.Name)
		}
	}

	updated, err := s.store.UpdateCollection(ctx, ownerID, collectionID, update)
	if err != nil {
		return nil, conflict(err, "a collection with this name already exists", "collection not found", "update collection")
	}

	s.logger.Info("Collection updated", "collection_id", collectionID, "user_id", ownerID)
	return updated, nil
}

// Delete removes a collection. Its favorites move back to Favorites.
func (s *CollectionService) Delete(ctx context.Context, ownerID, collectionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	current, err := s.getOwned(ctx, ownerID, collectionID)
	if err != nil {
		return err
	}
	if current.Name == domain.DefaultCollection {
		return domainerrors.Validationf("%q cannot be deleted", domain.DefaultCollection)
	}

	if err := s.store.DeleteCollection(ctx, ownerID, collectionID); err != nil {
		return notFound(err, "collection not found", "delete collection")
	}

	s.logger.Info("Collection deleted",
		"collection_id", collectionID,
		"name", current.Name,
		"user_id", ownerID,
	)
	return nil
}

// getOwned loads a collection. Someone else's collection reads as missing.
func (s *CollectionService) getOwned(ctx context.Context, ownerID, collectionID string) (*domain.Collection, error) {
	c, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, notFound(err, "collection not found", "get collection")
	}
	if c.OwnerID != ownerID {
		return nil, domainerrors.NotFound("collection not found")
	}
	return c, nil
}
