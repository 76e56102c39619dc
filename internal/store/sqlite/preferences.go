package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// prefBoolColumns maps every boolean preference column to its domain field
// and patch field. Scan, seed and upsert all iterate this one list.
var prefBoolColumns = []struct {
	name  string
	field func(p *domain.Preferences) *bool
	patch func(p domain.PreferencesPatch) *bool
}{
	{"weekly_digest", func(p *domain.Preferences) *bool { return &p.WeeklyDigest }, func(p domain.PreferencesPatch) *bool { return p.WeeklyDigest }},
	{"push_enabled", func(p *domain.Preferences) *bool { return &p.PushEnabled }, func(p domain.PreferencesPatch) *bool { return p.PushEnabled }},
	{"notify_new_recipes", func(p *domain.Preferences) *bool { return &p.NotifyNewRecipes }, func(p domain.PreferencesPatch) *bool { return p.NotifyNewRecipes }},
	{"notify_likes", func(p *domain.Preferences) *bool { return &p.NotifyLikes }, func(p domain.PreferencesPatch) *bool { return p.NotifyLikes }},
	{"notify_comments", func(p *domain.Preferences) *bool { return &p.NotifyComments }, func(p domain.PreferencesPatch) *bool { return p.NotifyComments }},
	{"notify_followers", func(p *domain.Preferences) *bool { return &p.NotifyFollowers }, func(p domain.PreferencesPatch) *bool { return p.NotifyFollowers }},
	{"profile_public", func(p *domain.Preferences) *bool { return &p.ProfilePublic }, func(p domain.PreferencesPatch) *bool { return p.ProfilePublic }},
	{"show_activity", func(p *domain.Preferences) *bool { return &p.ShowActivity }, func(p domain.PreferencesPatch) *bool { return p.ShowActivity }},
	{"allow_comments", func(p *domain.Preferences) *bool { return &p.AllowComments }, func(p domain.PreferencesPatch) *bool { return p.AllowComments }},
	{"show_favorites", func(p *domain.Preferences) *bool { return &p.ShowFavorites }, func(p domain.PreferencesPatch) *bool { return p.ShowFavorites }},
	{"show_followers", func(p *domain.Preferences) *bool { return &p.ShowFollowers }, func(p domain.PreferencesPatch) *bool { return p.ShowFollowers }},
	{"show_followers_list", func(p *domain.Preferences) *bool { return &p.ShowFollowersList }, func(p domain.PreferencesPatch) *bool { return p.ShowFollowersList }},
	{"show_email", func(p *domain.Preferences) *bool { return &p.ShowEmail }, func(p domain.PreferencesPatch) *bool { return p.ShowEmail }},
	{"searchable", func(p *domain.Preferences) *bool { return &p.Searchable }, func(p domain.PreferencesPatch) *bool { return p.Searchable }},
}

// preferenceColumns returns the ordered select list. Must match scanPreferences.
func preferenceColumns() string {
	cols := make([]string, 0, len(prefBoolColumns)+4)
	cols = append(cols, "user_id")
	for _, c := range prefBoolColumns {
		cols = append(cols, c.name)
	}
	cols = append(cols, "color_theme", "last_active", "updated_at")
	return strings.Join(cols, ", ")
}

func scanPreferences(sc scanner) (*domain.Preferences, error) {
	var (
		p          domain.Preferences
		flags      = make([]int, len(prefBoolColumns))
		lastActive sql.NullString
		updatedAt  string
	)

	dest := make([]any, 0, len(prefBoolColumns)+4)
	dest = append(dest, &p.UserID)
	for i := range flags {
		dest = append(dest, &flags[i])
	}
	dest = append(dest, &p.ColorTheme, &lastActive, &updatedAt)

	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}

	for i, c := range prefBoolColumns {
		*c.field(&p) = flags[i] != 0
	}

	var err error
	if p.LastActive, err = parseNullableTime(lastActive); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertDefaultPreferences writes the default row unless one exists.
func insertDefaultPreferences(ctx context.Context, db execer, userID string, now time.Time) error {
	defaults := domain.DefaultPreferences(userID)

	args := make([]any, 0, len(prefBoolColumns)+4)
	args = append(args, userID)
	for _, c := range prefBoolColumns {
		args = append(args, boolToInt(*c.field(&defaults)))
	}
	args = append(args, defaults.ColorTheme, formatTime(now), formatTime(now))

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_preferences (`+preferenceColumns()+`)
		VALUES (`+placeholders(len(args))+`)`, args...)
	return err
}

// GetPreferences returns the stored preferences for userID.
// Returns store.ErrNotFound when the user has no row.
func (s *Store) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+preferenceColumns()+` FROM user_preferences WHERE user_id = ?`, userID)
	p, err := scanPreferences(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return p, err
}

// UpsertPreferences applies patch in a single statement. A new row starts
// from the defaults with the patch overlaid; an existing row keeps every
// column the patch leaves nil.
func (s *Store) UpsertPreferences(ctx context.Context, userID string, patch domain.PreferencesPatch, now time.Time) (*domain.Preferences, error) {
	seeded := patch.Apply(domain.DefaultPreferences(userID))
	ts := formatTime(now)

	insertArgs := make([]any, 0, len(prefBoolColumns)+4)
	insertArgs = append(insertArgs, userID)
	for _, c := range prefBoolColumns {
		insertArgs = append(insertArgs, boolToInt(*c.field(&seeded)))
	}
	insertArgs = append(insertArgs, seeded.ColorTheme, ts, ts)

	sets := make([]string, 0, len(prefBoolColumns)+3)
	updateArgs := make([]any, 0, len(prefBoolColumns)+1)
	for _, c := range prefBoolColumns {
		sets = append(sets, c.name+" = COALESCE(?, "+c.name+")")
		updateArgs = append(updateArgs, nullBool(c.patch(patch)))
	}
	var theme sql.NullString
	if patch.ColorTheme != nil {
		theme = sql.NullString{String: *patch.ColorTheme, Valid: true}
	}
	sets = append(sets,
		"color_theme = COALESCE(?, color_theme)",
		"last_active = excluded.last_active",
		"updated_at = excluded.updated_at",
	)
	updateArgs = append(updateArgs, theme)

	query := `INSERT INTO user_preferences (` + preferenceColumns() + `)
		VALUES (` + placeholders(len(insertArgs)) + `)
		ON CONFLICT(user_id) DO UPDATE SET ` + strings.Join(sets, ", ")

	if _, err := s.db.ExecContext(ctx, query, append(insertArgs, updateArgs...)...); err != nil {
		return nil, translateInsertError(err)
	}
	return s.GetPreferences(ctx, userID)
}
