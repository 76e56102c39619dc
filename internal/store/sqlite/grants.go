package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// grantColumns is the ordered list of columns selected in grant queries.
// Must match the scan order in scanGrant.
const grantColumns = `e.recipe_id, e.user_id, e.can_edit, e.can_delete, e.can_manage_editors,
	e.added_by, e.created_at, e.updated_at`

func scanGrant(sc scanner, extra ...any) (*domain.Grant, error) {
	var (
		g                           domain.Grant
		canEdit, canDelete, canMgmt int
		createdAt, updatedAt        string
	)

	dest := []any{&g.RecipeID, &g.UserID, &canEdit, &canDelete, &canMgmt, &g.AddedBy, &createdAt, &updatedAt}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	// Capability bits are 0/1 in storage; compare numerically.
	g.Capabilities = domain.CapabilitySet{
		CanEdit:          canEdit == 1,
		CanDelete:        canDelete == 1,
		CanManageEditors: canMgmt == 1,
	}

	var err error
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGrant returns userID's grant on recipeID.
// Returns store.ErrNotFound if there is none.
func (s *Store) GetGrant(ctx context.Context, recipeID, userID string) (*domain.Grant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+grantColumns+` FROM recipe_editors e WHERE e.recipe_id = ? AND e.user_id = ?`,
		recipeID, userID)
	g, err := scanGrant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return g, err
}

// UpsertGrant creates the grant or replaces the capabilities and added_by of
// an existing one in a single statement.
func (s *Store) UpsertGrant(ctx context.Context, grant *domain.Grant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipe_editors (
			recipe_id, user_id, can_edit, can_delete, can_manage_editors, added_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(recipe_id, user_id) DO UPDATE SET
			can_edit = excluded.can_edit,
			can_delete = excluded.can_delete,
			can_manage_editors = excluded.can_manage_editors,
			added_by = excluded.added_by,
			updated_at = excluded.updated_at`,
		grant.RecipeID,
		grant.UserID,
		boolToInt(grant.Capabilities.CanEdit),
		boolToInt(grant.Capabilities.CanDelete),
		boolToInt(grant.Capabilities.CanManageEditors),
		grant.AddedBy,
		formatTime(grant.CreatedAt),
		formatTime(grant.UpdatedAt),
	)
	return translateInsertError(err)
}

// UpdateGrant changes the capability bits of an existing grant. added_by is
// left alone. Returns store.ErrNotFound if there is no grant.
func (s *Store) UpdateGrant(ctx context.Context, recipeID, userID string, caps domain.CapabilitySet, now time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recipe_editors SET
			can_edit = ?, can_delete = ?, can_manage_editors = ?, updated_at = ?
		WHERE recipe_id = ? AND user_id = ?`,
		boolToInt(caps.CanEdit),
		boolToInt(caps.CanDelete),
		boolToInt(caps.CanManageEditors),
		formatTime(now),
		recipeID, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteGrant removes userID's grant and reports whether one existed.
func (s *Store) DeleteGrant(ctx context.Context, recipeID, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recipe_editors WHERE recipe_id = ? AND user_id = ?`, recipeID, userID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// ListGrants returns the editors of recipeID, oldest grant first.
func (s *Store) ListGrants(ctx context.Context, recipeID string) ([]store.EditorEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+grantColumns+`, u.name, u.email, u.profile_image
		FROM recipe_editors e
		JOIN users u ON u.id = e.user_id
		WHERE e.recipe_id = ?
		ORDER BY e.created_at ASC`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.EditorEntry
	for rows.Next() {
		var (
			name, email string
			image       sql.NullString
		)
		g, err := scanGrant(rows, &name, &email, &image)
		if err != nil {
			return nil, err
		}
		out = append(out, store.EditorEntry{Grant: *g, User: userRef(g.UserID, name, email, image)})
	}
	return out, rows.Err()
}
