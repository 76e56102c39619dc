package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// recipeColumns is the ordered list of recipe columns. Must match scanRecipeInto.
const recipeColumns = `r.id, r.user_id, r.title, r.description, r.image, r.cook_time, r.servings,
	r.difficulty, r.visibility, r.tags, r.ingredients, r.instructions, r.created_at, r.updated_at`

// summarySelect joins the author and computes live counts, followed by any
// extra columns. Like counts always come from the likes table.
func summarySelect(extra string) string {
	cols := recipeColumns + `,
	u.name, u.email, u.profile_image,
	(SELECT COUNT(*) FROM likes l WHERE l.recipe_id = r.id),
	(SELECT COUNT(*) FROM comments c WHERE c.recipe_id = r.id)`
	if extra != "" {
		cols += ", " + extra
	}
	return `SELECT ` + cols + `
	FROM recipes r
	JOIN users u ON u.id = r.user_id`
}

var recipeSummarySelect = summarySelect("")

// rawRecipe holds the nullable and encoded columns of a recipe row.
type rawRecipe struct {
	description, image, cookTime, servings, difficulty sql.NullString
	visibility, tags, ingredients, instructions        string
	createdAt, updatedAt                               string
}

func (raw *rawRecipe) dest(r *domain.Recipe) []any {
	return []any{
		&r.ID, &r.OwnerID, &r.Title, &raw.description, &raw.image, &raw.cookTime, &raw.servings,
		&raw.difficulty, &raw.visibility, &raw.tags, &raw.ingredients, &raw.instructions,
		&raw.createdAt, &raw.updatedAt,
	}
}

func (raw *rawRecipe) finish(r *domain.Recipe) error {
	r.Description = raw.description.String
	r.Image = raw.image.String
	r.CookTime = raw.cookTime.String
	r.Servings = raw.servings.String
	r.Difficulty = raw.difficulty.String
	r.Visibility = domain.Visibility(raw.visibility)
	r.Tags = decodeList(raw.tags)
	r.Ingredients = decodeList(raw.ingredients)
	r.Instructions = decodeList(raw.instructions)

	var err error
	if r.CreatedAt, err = parseTime(raw.createdAt); err != nil {
		return err
	}
	if r.UpdatedAt, err = parseTime(raw.updatedAt); err != nil {
		return err
	}
	return nil
}

func scanRecipe(sc scanner) (*domain.Recipe, error) {
	var (
		r   domain.Recipe
		raw rawRecipe
	)
	if err := sc.Scan(raw.dest(&r)...); err != nil {
		return nil, err
	}
	if err := raw.finish(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// scanRecipeSummary scans a recipeSummarySelect row followed by extra columns.
func scanRecipeSummary(sc scanner, extra ...any) (*store.RecipeSummary, error) {
	var (
		sum         store.RecipeSummary
		raw         rawRecipe
		name, email string
		image       sql.NullString
	)

	dest := raw.dest(&sum.Recipe)
	dest = append(dest, &name, &email, &image, &sum.LikeCount, &sum.CommentCount)
	dest = append(dest, extra...)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	if err := raw.finish(&sum.Recipe); err != nil {
		return nil, err
	}
	sum.Author = userRef(sum.Recipe.OwnerID, name, email, image)
	return &sum, nil
}

func (s *Store) querySummaries(ctx context.Context, query string, args ...any) ([]store.RecipeSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RecipeSummary
	for rows.Next() {
		sum, err := scanRecipeSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sum)
	}
	return out, rows.Err()
}

// encodedLists JSON-encodes the list columns of r.
func encodedLists(r *domain.Recipe) (tags, ingredients, instructions string, err error) {
	if tags, err = encodeList(r.Tags); err != nil {
		return "", "", "", fmt.Errorf("encode tags: %w", err)
	}
	if ingredients, err = encodeList(r.Ingredients); err != nil {
		return "", "", "", fmt.Errorf("encode ingredients: %w", err)
	}
	if instructions, err = encodeList(r.Instructions); err != nil {
		return "", "", "", fmt.Errorf("encode instructions: %w", err)
	}
	return tags, ingredients, instructions, nil
}

// CreateRecipe inserts a recipe.
// Returns store.ErrNotFound if the owner does not exist.
func (s *Store) CreateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	tags, ingredients, instructions, err := encodedLists(recipe)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (
			id, user_id, title, description, image, cook_time, servings,
			difficulty, visibility, tags, ingredients, instructions, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID,
		recipe.OwnerID,
		recipe.Title,
		nullString(recipe.Description),
		nullString(recipe.Image),
		nullString(recipe.CookTime),
		nullString(recipe.Servings),
		nullString(recipe.Difficulty),
		string(recipe.Visibility),
		tags,
		ingredients,
		instructions,
		formatTime(recipe.CreatedAt),
		formatTime(recipe.UpdatedAt),
	)
	return translateInsertError(err)
}

// GetRecipe retrieves a recipe by ID.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) GetRecipe(ctx context.Context, recipeID string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes r WHERE r.id = ?`, recipeID)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return r, err
}

// GetRecipeSummary retrieves a recipe with its author and counts.
func (s *Store) GetRecipeSummary(ctx context.Context, recipeID string) (*store.RecipeSummary, error) {
	row := s.db.QueryRowContext(ctx, recipeSummarySelect+` WHERE r.id = ?`, recipeID)
	sum, err := scanRecipeSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return sum, err
}

// UpdateRecipe rewrites the editable columns. The owner is never changed.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	tags, ingredients, instructions, err := encodedLists(recipe)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET
			title = ?, description = ?, image = ?, cook_time = ?, servings = ?,
			difficulty = ?, visibility = ?, tags = ?, ingredients = ?, instructions = ?,
			updated_at = ?
		WHERE id = ?`,
		recipe.Title,
		nullString(recipe.Description),
		nullString(recipe.Image),
		nullString(recipe.CookTime),
		nullString(recipe.Servings),
		nullString(recipe.Difficulty),
		string(recipe.Visibility),
		tags,
		ingredients,
		instructions,
		formatTime(recipe.UpdatedAt),
		recipe.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteRecipe removes a recipe; likes, favorites, grants and comments
// cascade. Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) DeleteRecipe(ctx context.Context, recipeID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, recipeID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListPublicRecipes returns the public feed, newest first.
func (s *Store) ListPublicRecipes(ctx context.Context, filter store.RecipeFilter) ([]store.RecipeSummary, error) {
	page := filter.Page.Normalize()
	return s.querySummaries(ctx, recipeSummarySelect+`
		WHERE r.visibility = 'public'
			AND (? = '' OR EXISTS (SELECT 1 FROM json_each(r.tags) t WHERE t.value = ?))
		ORDER BY r.created_at DESC
		LIMIT ? OFFSET ?`,
		filter.Tag, filter.Tag, page.Limit, page.Offset)
}

// ListRecipesByOwner returns ownerID's recipes, newest first.
func (s *Store) ListRecipesByOwner(ctx context.Context, ownerID string, publicOnly bool) ([]store.RecipeSummary, error) {
	return s.querySummaries(ctx, recipeSummarySelect+`
		WHERE r.user_id = ? AND (? = 0 OR r.visibility = 'public')
		ORDER BY r.created_at DESC`,
		ownerID, boolToInt(publicOnly))
}

// ListMadeRecipes returns the recipes userID marked as made, most recent first.
func (s *Store) ListMadeRecipes(ctx context.Context, userID string) ([]store.RecipeSummary, error) {
	return s.querySummaries(ctx, recipeSummarySelect+`
		JOIN made_recipes m ON m.recipe_id = r.id
		WHERE m.user_id = ?
		ORDER BY m.created_at DESC`,
		userID)
}

// ListSharedRecipes returns recipes on which userID holds a grant, most
// recently granted first.
func (s *Store) ListSharedRecipes(ctx context.Context, userID string) ([]store.SharedRecipe, error) {
	rows, err := s.db.QueryContext(ctx, summarySelect("e.can_edit, e.can_delete, e.can_manage_editors")+`
		JOIN recipe_editors e ON e.recipe_id = r.id
		WHERE e.user_id = ? AND r.user_id != e.user_id
		ORDER BY e.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.SharedRecipe
	for rows.Next() {
		var canEdit, canDelete, canManage int
		sum, err := scanRecipeSummary(rows, &canEdit, &canDelete, &canManage)
		if err != nil {
			return nil, err
		}
		out = append(out, store.SharedRecipe{
			RecipeSummary: *sum,
			Capabilities: domain.CapabilitySet{
				CanEdit:          canEdit != 0,
				CanDelete:        canDelete != 0,
				CanManageEditors: canManage != 0,
			},
		})
	}
	return out, rows.Err()
}

// ListAllRecipes returns every recipe, oldest first. Used to rebuild the
// search index.
func (s *Store) ListAllRecipes(ctx context.Context) ([]store.RecipeSummary, error) {
	return s.querySummaries(ctx, recipeSummarySelect+` ORDER BY r.created_at ASC`)
}

// GetRecipeSummaries loads the given recipes, preserving the order of ids
// and skipping any that no longer exist.
func (s *Store) GetRecipeSummaries(ctx context.Context, ids []string) ([]store.RecipeSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, v := range ids {
		args[i] = v
	}
	found, err := s.querySummaries(ctx, recipeSummarySelect+`
		WHERE r.id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]store.RecipeSummary, len(found))
	for _, sum := range found {
		byID[sum.Recipe.ID] = sum
	}
	out := make([]store.RecipeSummary, 0, len(found))
	for _, v := range ids {
		if sum, ok := byID[v]; ok {
			out = append(out, sum)
		}
	}
	return out, nil
}
