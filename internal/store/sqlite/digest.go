package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// ListDigestSubscribers returns users whose effective weekly_digest setting
// is on. Users without a preferences row get the default, which is on.
func (s *Store) ListDigestSubscribers(ctx context.Context) ([]store.DigestSubscriber, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.name
		FROM users u
		LEFT JOIN user_preferences p ON p.user_id = u.id
		WHERE COALESCE(p.weekly_digest, ?) = 1
		ORDER BY u.created_at ASC`,
		boolToInt(domain.DefaultPreferences("").WeeklyDigest))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.DigestSubscriber
	for rows.Next() {
		var sub store.DigestSubscriber
		if err := rows.Scan(&sub.UserID, &sub.Email, &sub.Name); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// TrendingRecipes ranks public recipes by live like count, breaking ties by
// recency. A zero since covers all time.
func (s *Store) TrendingRecipes(ctx context.Context, since time.Time, limit int) ([]store.DigestRecipe, error) {
	var sinceArg string
	if !since.IsZero() {
		sinceArg = formatTime(since)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.title, r.description, r.image, u.name, u.email, COUNT(l.user_id) AS like_count
		FROM recipes r
		JOIN users u ON u.id = r.user_id
		LEFT JOIN likes l ON l.recipe_id = r.id
		WHERE r.visibility = 'public' AND (? = '' OR r.created_at >= ?)
		GROUP BY r.id
		ORDER BY like_count DESC, r.created_at DESC
		LIMIT ?`,
		sinceArg, sinceArg, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.DigestRecipe
	for rows.Next() {
		var (
			rec                store.DigestRecipe
			description, image sql.NullString
			name, email        string
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &description, &image, &name, &email, &rec.LikeCount); err != nil {
			return nil, err
		}
		rec.Description = description.String
		rec.Image = image.String
		rec.AuthorName = (&domain.User{Name: name, Email: email}).DisplayName()
		out = append(out, rec)
	}
	return out, rows.Err()
}
