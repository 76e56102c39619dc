package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/id"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, email, password_hash, name, bio, profile_image, created_at, updated_at`

func scanUser(sc scanner) (*domain.User, error) {
	var (
		u            domain.User
		passwordHash sql.NullString
		bio          sql.NullString
		profileImage sql.NullString
		createdAt    string
		updatedAt    string
	)

	err := sc.Scan(&u.ID, &u.Email, &passwordHash, &u.Name, &bio, &profileImage, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	u.PasswordHash = passwordHash.String
	u.Bio = bio.String
	u.ProfileImage = profileImage.String

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// userRef builds the public identity from raw columns.
func userRef(userID, name, email string, image sql.NullString) store.UserRef {
	u := domain.User{ID: userID, Name: name, Email: email}
	return store.UserRef{ID: userID, Name: u.DisplayName(), ProfileImage: image.String}
}

// CreateUser inserts a user, their default preferences and their default
// collection in one transaction.
// Returns store.ErrAlreadyExists if the ID or email is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	collectionID, err := id.Generate(id.PrefixCollection)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, email_lower, password_hash, name, bio, profile_image, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			user.ID,
			user.Email,
			strings.ToLower(strings.TrimSpace(user.Email)),
			nullString(user.PasswordHash),
			user.Name,
			nullString(user.Bio),
			nullString(user.ProfileImage),
			formatTime(user.CreatedAt),
			formatTime(user.UpdatedAt),
		)
		if err != nil {
			return translateInsertError(err)
		}

		if err := insertDefaultPreferences(ctx, tx, user.ID, user.CreatedAt); err != nil {
			return fmt.Errorf("seed preferences: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO collections (id, user_id, name, is_public, created_at)
			VALUES (?, ?, ?, 1, ?)`,
			collectionID, user.ID, domain.DefaultCollection, formatTime(user.CreatedAt))
		if err != nil {
			return fmt.Errorf("seed default collection: %w", translateInsertError(err))
		}
		return nil
	})
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return u, err
}

// GetUserByEmail retrieves a user by case-insensitive email.
// Returns store.ErrNotFound if no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return u, err
}

// UpdateUserProfile applies the supplied profile fields and returns the
// updated user.
func (s *Store) UpdateUserProfile(ctx context.Context, userID string, update domain.ProfileUpdate, now time.Time) (*domain.User, error) {
	var name sql.NullString
	if update.Name != nil {
		name = sql.NullString{String: *update.Name, Valid: true}
	}
	var bio, image sql.NullString
	if update.Bio != nil {
		bio = sql.NullString{String: *update.Bio, Valid: true}
	}
	if update.ProfileImage != nil {
		image = sql.NullString{String: *update.ProfileImage, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			name = COALESCE(?, name),
			bio = COALESCE(?, bio),
			profile_image = COALESCE(?, profile_image),
			updated_at = ?
		WHERE id = ?`,
		name, bio, image, formatTime(now), userID)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetUser(ctx, userID)
}

// SearchUsers matches searchable users by name, excluding the viewer.
func (s *Store) SearchUsers(ctx context.Context, viewerID, query string, limit int) ([]store.UserSearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.profile_image,
			(SELECT COUNT(*) FROM recipes r WHERE r.user_id = u.id AND r.visibility = 'public'),
			(SELECT COUNT(*) FROM followers f WHERE f.followed_id = u.id),
			EXISTS (SELECT 1 FROM followers f2 WHERE f2.follower_id = ? AND f2.followed_id = u.id)
		FROM users u
		LEFT JOIN user_preferences p ON p.user_id = u.id
		WHERE u.name LIKE ? ESCAPE '\' AND u.id != ?
			AND COALESCE(p.searchable, ?) = 1
		ORDER BY u.name
		LIMIT ?`,
		viewerID, likePattern(query), viewerID,
		boolToInt(domain.DefaultPreferences("").Searchable), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []store.UserSearchResult
	for rows.Next() {
		var (
			r           store.UserSearchResult
			userID      string
			name, email string
			image       sql.NullString
			following   int
		)
		if err := rows.Scan(&userID, &name, &email, &image, &r.RecipeCount, &r.FollowerCount, &following); err != nil {
			return nil, err
		}
		r.User = userRef(userID, name, email, image)
		r.IsFollowing = following != 0
		results = append(results, r)
	}
	return results, rows.Err()
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
