package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/store"
)

// Follow creates the edge follower -> followed and reports whether it is new.
// A repeated follow is not an error.
func (s *Store) Follow(ctx context.Context, followerID, followedID string, now time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO followers (follower_id, followed_id, created_at)
		VALUES (?, ?, ?)`,
		followerID, followedID, formatTime(now))
	if err != nil {
		return false, translateInsertError(err)
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// Unfollow removes the edge and reports whether it existed.
func (s *Store) Unfollow(ctx context.Context, followerID, followedID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM followers WHERE follower_id = ? AND followed_id = ?`, followerID, followedID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// IsFollowing reports whether followerID follows followedID.
func (s *Store) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = ? AND followed_id = ?)`,
		followerID, followedID).Scan(&exists)
	return exists != 0, err
}

// ListFollowing returns the users userID follows, newest first.
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]store.FollowEntry, error) {
	return s.queryFollows(ctx, `
		SELECT u.id, u.name, u.email, u.profile_image, f.created_at
		FROM followers f
		JOIN users u ON u.id = f.followed_id
		WHERE f.follower_id = ?
		ORDER BY f.created_at DESC`, userID)
}

// ListFollowers returns the users following userID, newest first.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]store.FollowEntry, error) {
	return s.queryFollows(ctx, `
		SELECT u.id, u.name, u.email, u.profile_image, f.created_at
		FROM followers f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followed_id = ?
		ORDER BY f.created_at DESC`, userID)
}

func (s *Store) queryFollows(ctx context.Context, query string, args ...any) ([]store.FollowEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.FollowEntry
	for rows.Next() {
		var (
			userID, name, email string
			image               sql.NullString
			createdAt           string
		)
		if err := rows.Scan(&userID, &name, &email, &image, &createdAt); err != nil {
			return nil, err
		}
		at, err := parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		out = append(out, store.FollowEntry{User: userRef(userID, name, email, image), FollowedAt: at})
	}
	return out, rows.Err()
}

// CountFollows returns both sides of userID's social graph.
func (s *Store) CountFollows(ctx context.Context, userID string) (store.FollowCounts, error) {
	var c store.FollowCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM followers WHERE followed_id = ?),
			(SELECT COUNT(*) FROM followers WHERE follower_id = ?)`,
		userID, userID).Scan(&c.Followers, &c.Following)
	return c, err
}
