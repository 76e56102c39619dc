package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// collectionColumns is the ordered list of columns selected in collection
// queries. Must match the scan order in scanCollection.
const collectionColumns = `c.id, c.user_id, c.name, c.is_public, c.created_at`

func scanCollection(sc scanner, extra ...any) (*domain.Collection, error) {
	var (
		c         domain.Collection
		isPublic  int
		createdAt string
	)
	dest := []any{&c.ID, &c.OwnerID, &c.Name, &isPublic, &createdAt}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	c.IsPublic = isPublic == 1

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCollection inserts a collection.
// Returns store.ErrAlreadyExists if the owner already has one by that name.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, user_id, name, is_public, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, boolToInt(c.IsPublic), formatTime(c.CreatedAt))
	return translateInsertError(err)
}

// EnsureCollection inserts c unless the owner already has a collection with
// the same name.
func (s *Store) EnsureCollection(ctx context.Context, c *domain.Collection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, user_id, name, is_public, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, name) DO NOTHING`,
		c.ID, c.OwnerID, c.Name, boolToInt(c.IsPublic), formatTime(c.CreatedAt))
	return translateInsertError(err)
}

// GetCollection retrieves a collection by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetCollection(ctx context.Context, collectionID string) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+collectionColumns+` FROM collections c WHERE c.id = ?`, collectionID)
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

// ListCollections returns ownerID's collections with recipe counts. The
// default collection sorts first, the rest by creation time.
func (s *Store) ListCollections(ctx context.Context, ownerID string) ([]store.CollectionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+collectionColumns+`,
			(SELECT COUNT(*) FROM favorites f WHERE f.user_id = c.user_id AND f.collection = c.name)
		FROM collections c
		WHERE c.user_id = ?
		ORDER BY (c.name = ?) DESC, c.created_at ASC`,
		ownerID, domain.DefaultCollection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.CollectionSummary
	for rows.Next() {
		var count int
		c, err := scanCollection(rows, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, store.CollectionSummary{Collection: *c, RecipeCount: count})
	}
	return out, rows.Err()
}

// lookupCollectionName returns the name of ownerID's collection id, or
// store.ErrNotFound when it does not exist or belongs to someone else.
func lookupCollectionName(ctx context.Context, tx *sql.Tx, ownerID, collectionID string) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx,
		`SELECT name FROM collections WHERE id = ? AND user_id = ?`, collectionID, ownerID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	return name, err
}

// UpdateCollection applies update to ownerID's collection. Renaming moves
// the favorites filed under the old name in the same transaction.
func (s *Store) UpdateCollection(ctx context.Context, ownerID, collectionID string, update domain.CollectionUpdate) (*domain.Collection, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		oldName, err := lookupCollectionName(ctx, tx, ownerID, collectionID)
		if err != nil {
			return err
		}

		if update.Name != nil && *update.Name != oldName {
			if _, err := tx.ExecContext(ctx,
				`UPDATE collections SET name = ? WHERE id = ? AND user_id = ?`,
				*update.Name, collectionID, ownerID); err != nil {
				return translateInsertError(err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE favorites SET collection = ? WHERE user_id = ? AND collection = ?`,
				*update.Name, ownerID, oldName); err != nil {
				return fmt.Errorf("move favorites: %w", err)
			}
		}

		if update.IsPublic != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE collections SET is_public = ? WHERE id = ? AND user_id = ?`,
				boolToInt(*update.IsPublic), collectionID, ownerID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetCollection(ctx, collectionID)
}

// DeleteCollection moves the collection's favorites back to the default
// collection and deletes it. Both happen in one transaction so no favorite
// is left pointing at a missing collection.
func (s *Store) DeleteCollection(ctx context.Context, ownerID, collectionID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		name, err := lookupCollectionName(ctx, tx, ownerID, collectionID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE favorites SET collection = ? WHERE user_id = ? AND collection = ?`,
			domain.DefaultCollection, ownerID, name); err != nil {
			return fmt.Errorf("reassign favorites: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM collections WHERE id = ? AND user_id = ?`, collectionID, ownerID); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		return nil
	})
}
