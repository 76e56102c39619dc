package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// Profile page sizes.
const (
	ProfileRecipeLimit   = 20
	ProfileFavoriteLimit = 20
)

// ProfileService builds profile pages and edits the caller's own profile.
type ProfileService struct {
	store  store.Store
	policy *policy.Policy
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store store.Store, policy *policy.Policy, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// UpdateProfileRequest is a partial update of the caller's profile.
// Profile images are opaque strings (a URL or a data URI).
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Bio          *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfileImage *string `json:"profile_image,omitempty" validate:"omitempty,max=2097152"`
}

// Profile is a user's page as one viewer sees it. Details is nil when the
// profile is private to the viewer: only the identity may be shown then.
type Profile struct {
	User    store.UserRef
	Private bool
	Details *ProfileDetails
}

// ProfileDetails holds the gated parts of a public profile. Hidden counts
// are nil, not zero. Hidden favorites are nil, not empty.
type ProfileDetails struct {
	Bio         string
	Email       string
	CreatedAt   time.Time
	LastActive  *time.Time
	RecipeCount int
	Followers   *int
	Following   *int
	Recipes     []store.RecipeSummary
	Favorites   []store.FavoriteEntry
	IsFollowing bool
	IsOwner     bool
	// Settings is only filled for the owner.
	Settings *domain.Preferences
}

// GetProfile returns ownerID's profile as viewerID sees it. viewerID may be
// empty for anonymous viewers.
func (s *ProfileService) GetProfile(ctx context.Context, viewerID, ownerID string) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	owner, err := s.store.GetUser(ctx, ownerID)
	if err != nil {
		return nil, notFound(err, "user not found", "get user")
	}
	prefs, err := loadPreferences(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}

	view := s.policy.ProfileAccess(viewerID, ownerID, prefs)
	profile := &Profile{
		User: store.UserRef{
			ID:           owner.ID,
			Name:         owner.DisplayName(),
			ProfileImage: owner.ProfileImage,
		},
	}
	if !view.Full {
		profile.Private = true
		return profile, nil
	}

	details := &ProfileDetails{
		Bio:       owner.Bio,
		CreatedAt: owner.CreatedAt,
		IsOwner:   view.IsOwner,
	}
	if view.ShowEmail {
		details.Email = owner.Email
	}
	if view.ShowLastActive {
		details.LastActive = prefs.LastActive
	}
	if view.IsOwner {
		details.Settings = &prefs
	}

	if view.ShowFollowCounts {
		counts, err := s.store.CountFollows(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("count follows: %w", err)
		}
		details.Followers = &counts.Followers
		details.Following = &counts.Following
	}

	recipes, err := s.store.ListRecipesByOwner(ctx, ownerID, view.PublicRecipesOnly)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	details.RecipeCount = len(recipes)
	if len(recipes) > ProfileRecipeLimit {
		recipes = recipes[:ProfileRecipeLimit]
	}
	details.Recipes = recipes
	if details.Recipes == nil {
		details.Recipes = []store.RecipeSummary{}
	}

	if view.ShowFavorites {
		details.Favorites, err = s.exposedFavorites(ctx, viewerID, ownerID)
		if err != nil {
			return nil, err
		}
	}

	if viewerID != "" && !view.IsOwner {
		details.IsFollowing, err = s.store.IsFollowing(ctx, viewerID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("check following: %w", err)
		}
	}

	profile.Details = details
	return profile, nil
}

// GetOwnProfile returns the caller's own account.
func (s *ProfileService) GetOwnProfile(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found", "get user")
	}
	return user, nil
}

// UpdateOwnProfile changes the caller's name, bio or profile image.
func (s *ProfileService) UpdateOwnProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	update := domain.ProfileUpdate{
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		update.Name = &name
	}
	if update.IsEmpty() {
		return nil, domainerrors.NoFieldsToUpdate()
	}

	user, err := s.store.UpdateUserProfile(ctx, userID, update, now())
	if err != nil {
		return nil, notFound(err, "user not found", "update profile")
	}

	s.logger.Info("Profile updated", "user_id", userID)
	return user, nil
}

func (s *ProfileService) exposedFavorites(ctx context.Context, viewerID, ownerID string) ([]store.FavoriteEntry, error) {
	all, err := s.store.ListFavorites(ctx, ownerID, "")
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	exposed := make([]store.FavoriteEntry, 0, min(len(all), ProfileFavoriteLimit))
	for _, fav := range all {
		if len(exposed) == ProfileFavoriteLimit {
			break
		}
		if !s.policy.FavoriteExposed(viewerID, ownerID, fav.CollectionIsPublic) {
			continue
		}
		// A favorited recipe that went private stays hidden from others.
		if viewerID != ownerID && !fav.Recipe.IsPublic() {
			continue
		}
		exposed = append(exposed, fav)
	}
	return exposed, nil
}
