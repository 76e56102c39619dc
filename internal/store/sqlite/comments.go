package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// commentColumns is the ordered list of columns selected in comment queries.
const commentColumns = `c.id, c.recipe_id, c.user_id, c.content, c.created_at, c.updated_at`

func scanComment(sc scanner, extra ...any) (*domain.Comment, error) {
	var (
		c                    domain.Comment
		createdAt, updatedAt string
	)
	dest := []any{&c.ID, &c.RecipeID, &c.UserID, &c.Content, &createdAt, &updatedAt}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a comment.
// Returns store.ErrNotFound if the recipe or author does not exist.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, recipe_id, user_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.RecipeID, c.UserID, c.Content, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	return translateInsertError(err)
}

// GetComment retrieves a comment by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.id = ?`, commentID)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

// UpdateComment replaces a comment's content.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) UpdateComment(ctx context.Context, commentID, content string, now time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		content, formatTime(now), commentID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteComment removes a comment. Deleting a missing comment is not an error.
func (s *Store) DeleteComment(ctx context.Context, commentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, commentID)
	return err
}

// ListComments returns the comments on recipeID, newest first.
func (s *Store) ListComments(ctx context.Context, recipeID string) ([]store.CommentEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`, u.name, u.email, u.profile_image
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.recipe_id = ?
		ORDER BY c.created_at DESC`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.CommentEntry
	for rows.Next() {
		var (
			name, email string
			image       sql.NullString
		)
		c, err := scanComment(rows, &name, &email, &image)
		if err != nil {
			return nil, err
		}
		out = append(out, store.CommentEntry{Comment: *c, Author: userRef(c.UserID, name, email, image)})
	}
	return out, rows.Err()
}
