package domain

import "time"

// Color themes a user may pick.
var ColorThemes = []string{"default", "ocean", "berry", "forest", "sunset", "lavender"}

// Preferences holds a user's notification and privacy settings.
// A user without a stored row behaves exactly as DefaultPreferences.
type Preferences struct {
	UserID string `json:"user_id"`

	WeeklyDigest     bool `json:"weekly_digest"`
	PushEnabled      bool `json:"push_enabled"`
	NotifyNewRecipes bool `json:"notify_new_recipes"`
	NotifyLikes      bool `json:"notify_likes"`
	NotifyComments   bool `json:"notify_comments"`
	NotifyFollowers  bool `json:"notify_followers"`

	ProfilePublic     bool `json:"profile_public"`
	ShowActivity      bool `json:"show_activity"`
	AllowComments     bool `json:"allow_comments"`
	ShowFavorites     bool `json:"show_favorites"`
	ShowFollowers     bool `json:"show_followers"`
	ShowFollowersList bool `json:"show_followers_list"`
	ShowEmail         bool `json:"show_email"`
	Searchable        bool `json:"searchable"`

	ColorTheme string `json:"color_theme"`

	LastActive *time.Time `json:"last_active,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DefaultPreferences returns the settings every user starts with.
// Both the read path and the first write are seeded from here.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:            userID,
		WeeklyDigest:      true,
		PushEnabled:       true,
		NotifyNewRecipes:  true,
		NotifyLikes:       true,
		NotifyComments:    true,
		NotifyFollowers:   true,
		ProfilePublic:     true,
		ShowActivity:      false,
		AllowComments:     true,
		ShowFavorites:     false,
		ShowFollowers:     true,
		ShowFollowersList: false,
		ShowEmail:         false,
		Searchable:        true,
		ColorTheme:        "default",
	}
}

// PreferencesPatch is a partial update. Nil fields keep their stored value.
type PreferencesPatch struct {
	WeeklyDigest      *bool
	PushEnabled       *bool
	NotifyNewRecipes  *bool
	NotifyLikes       *bool
	NotifyComments    *bool
	NotifyFollowers   *bool
	ProfilePublic     *bool
	ShowActivity      *bool
	AllowComments     *bool
	ShowFavorites     *bool
	ShowFollowers     *bool
	ShowFollowersList *bool
	ShowEmail         *bool
	Searchable        *bool
	ColorTheme        *string
}

// IsEmpty reports whether the patch carries no field at all.
func (p PreferencesPatch) IsEmpty() bool {
	return p == PreferencesPatch{}
}

// Apply returns prefs with every supplied field of p overlaid.
func (p PreferencesPatch) Apply(prefs Preferences) Preferences {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&prefs.WeeklyDigest, p.WeeklyDigest)
	set(&prefs.PushEnabled, p.PushEnabled)
	set(&prefs.NotifyNewRecipes, p.NotifyNewRecipes)
	set(&prefs.NotifyLikes, p.NotifyLikes)
	set(&prefs.NotifyComments, p.NotifyComments)
	set(&prefs.NotifyFollowers, p.NotifyFollowers)
	set(&prefs.ProfilePublic, p.ProfilePublic)
	set(&prefs.ShowActivity, p.ShowActivity)
	set(&prefs.AllowComments, p.AllowComments)
	set(&prefs.ShowFavorites, p.ShowFavorites)
	set(&prefs.ShowFollowers, p.ShowFollowers)
	set(&prefs.ShowFollowersList, p.ShowFollowersList)
	set(&prefs.ShowEmail, p.ShowEmail)
	set(&prefs.Searchable, p.Searchable)
	if p.ColorTheme != nil {
		prefs.ColorTheme = *p.ColorTheme
	}
	return prefs
}
