package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// AddLike records that userID liked recipeID. The primary key rejects a
// second like, which surfaces as store.ErrAlreadyExists.
func (s *Store) AddLike(ctx context.Context, userID, recipeID string, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO likes (user_id, recipe_id, created_at) VALUES (?, ?, ?)`,
		userID, recipeID, formatTime(now))
	return translateInsertError(err)
}

// RemoveLike deletes the like if present.
func (s *Store) RemoveLike(ctx context.Context, userID, recipeID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	return err
}

// CountLikes counts likes for recipeID.
func (s *Store) CountLikes(ctx context.Context, recipeID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE recipe_id = ?`, recipeID).Scan(&n)
	return n, err
}

// AddMade records that userID made recipeID. A duplicate surfaces as
// store.ErrAlreadyExists.
func (s *Store) AddMade(ctx context.Context, userID, recipeID string, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO made_recipes (user_id, recipe_id, created_at) VALUES (?, ?, ?)`,
		userID, recipeID, formatTime(now))
	return translateInsertError(err)
}

// RemoveMade deletes the made marker if present.
func (s *Store) RemoveMade(ctx context.Context, userID, recipeID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM made_recipes WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	return err
}

// SaveFavorite inserts the favorite or moves it to fav.Collection in one
// statement. The original saved_at is kept on a move.
func (s *Store) SaveFavorite(ctx context.Context, fav *domain.Favorite) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, recipe_id, collection, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, recipe_id) DO UPDATE SET collection = excluded.collection`,
		fav.UserID, fav.RecipeID, fav.Collection, formatTime(fav.CreatedAt))
	return translateInsertError(err)
}

// RemoveFavorite deletes the favorite if present.
func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	return err
}

// GetFavorite returns the favorite for (userID, recipeID).
// Returns store.ErrNotFound if the recipe is not favorited.
func (s *Store) GetFavorite(ctx context.Context, userID, recipeID string) (*domain.Favorite, error) {
	var (
		fav       = domain.Favorite{UserID: userID, RecipeID: recipeID}
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT collection, created_at FROM favorites WHERE user_id = ? AND recipe_id = ?`,
		userID, recipeID).Scan(&fav.Collection, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if fav.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &fav, nil
}

// GetEngagement reports userID's like, made and favorite state for recipeID.
func (s *Store) GetEngagement(ctx context.Context, userID, recipeID string) (domain.EngagementState, error) {
	var (
		state       domain.EngagementState
		liked, made int
		collection  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM likes WHERE user_id = ? AND recipe_id = ?),
			EXISTS (SELECT 1 FROM made_recipes WHERE user_id = ? AND recipe_id = ?),
			(SELECT collection FROM favorites WHERE user_id = ? AND recipe_id = ?)`,
		userID, recipeID, userID, recipeID, userID, recipeID).Scan(&liked, &made, &collection)
	if err != nil {
		return state, err
	}
	state.HasLiked = liked != 0
	state.HasMade = made != 0
	state.IsFavorited = collection.Valid
	state.Collection = collection.String
	return state, nil
}

// ListFavorites returns userID's favorites, most recently saved first.
// An empty collection returns every favorite. Each entry carries the
// visibility of its collection row, or nil when no row matches.
func (s *Store) ListFavorites(ctx context.Context, userID, collection string) ([]store.FavoriteEntry, error) {
	rows, err := s.db.QueryContext(ctx, summarySelect("f.collection, f.created_at, c.is_public")+`
		JOIN favorites f ON f.recipe_id = r.id
		LEFT JOIN collections c ON c.user_id = f.user_id AND c.name = f.collection
		WHERE f.user_id = ? AND (? = '' OR f.collection = ?)
		ORDER BY f.created_at DESC`,
		userID, collection, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.FavoriteEntry
	for rows.Next() {
		var (
			entry    store.FavoriteEntry
			savedAt  string
			isPublic sql.NullInt64
		)
		sum, err := scanRecipeSummary(rows, &entry.Collection, &savedAt, &isPublic)
		if err != nil {
			return nil, err
		}
		entry.RecipeSummary = *sum
		if entry.SavedAt, err = parseTime(savedAt); err != nil {
			return nil, err
		}
		if isPublic.Valid {
			v := isPublic.Int64 == 1
			entry.CollectionIsPublic = &v
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// CountFavorites counts every favorite userID holds.
func (s *Store) CountFavorites(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}
