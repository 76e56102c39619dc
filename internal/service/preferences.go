package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// PreferencesService reads and patches notification and privacy settings.
type PreferencesService struct {
	store  store.Store
	logger *slog.Logger
}

// NewPreferencesService creates a preferences service.
func NewPreferencesService(store store.Store, logger *slog.Logger) *PreferencesService {
	return &PreferencesService{store: store, logger: logger}
}

// UpdatePreferencesRequest is a partial update. Absent fields keep their
// stored value, or the default when the user never saved preferences.
type UpdatePreferencesRequest struct {
	WeeklyDigest      *bool   `json:"weekly_digest,omitempty"`
	PushEnabled       *bool   `json:"push_enabled,omitempty"`
	NotifyNewRecipes  *bool   `json:"notify_new_recipes,omitempty"`
	NotifyLikes       *bool   `json:"notify_likes,omitempty"`
	NotifyComments    *bool   `json:"notify_comments,omitempty"`
	NotifyFollowers   *bool   `json:"notify_followers,omitempty"`
	ProfilePublic     *bool   `json:"profile_public,omitempty"`
	ShowActivity      *bool   `json:"show_activity,omitempty"`
	AllowComments     *bool   `json:"allow_comments,omitempty"`
	ShowFavorites     *bool   `json:"show_favorites,omitempty"`
	ShowFollowers     *bool   `json:"show_followers,omitempty"`
	ShowFollowersList *bool   `json:"show_followers_list,omitempty"`
	ShowEmail         *bool   `json:"show_email,omitempty"`
	Searchable        *bool   `json:"searchable,omitempty"`
	ColorTheme        *string `json:"color_theme,omitempty" validate:"omitempty,colortheme"`
}

// Get returns userID's preferences, or the defaults when none were saved.
func (s *PreferencesService) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefs, err := loadPreferences(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Update applies req on top of the stored preferences and marks the user
// active. An empty request only touches last_active.
func (s *PreferencesService) Update(ctx context.Context, userID string, req UpdatePreferencesRequest) (*domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	prefs, err := s.store.UpsertPreferences(ctx, userID, req.toPatch(), now())
	if err != nil {
		return nil, notFound(err, "user not found", "upsert preferences")
	}

	s.logger.Info("Preferences updated", "user_id", userID)
	return prefs, nil
}

func (r UpdatePreferencesRequest) toPatch() domain.PreferencesPatch {
	return domain.PreferencesPatch{
		WeeklyDigest:      r.WeeklyDigest,
		PushEnabled:       r.PushEnabled,
		NotifyNewRecipes:  r.NotifyNewRecipes,
		NotifyLikes:       r.NotifyLikes,
		NotifyComments:    r.NotifyComments,
		NotifyFollowers:   r.NotifyFollowers,
		ProfilePublic:     r.ProfilePublic,
		ShowActivity:      r.ShowActivity,
		AllowComments:     r.AllowComments,
		ShowFavorites:     r.ShowFavorites,
		ShowFollowers:     r.ShowFollowers,
		ShowFollowersList: r.ShowFollowersList,
		ShowEmail:         r.ShowEmail,
		Searchable:        r.Searchable,
		ColorTheme:        r.ColorTheme,
	}
}

// loadPreferences returns the stored preferences or DefaultPreferences.
func loadPreferences(ctx context.Context, st store.Store, userID string) (domain.Preferences, error) {
	prefs, err := st.GetPreferences(ctx, userID)
	if isNotFound(err) {
		return domain.DefaultPreferences(userID), nil
	}
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return *prefs, nil
}
