package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cookfeed/cookfeed-server/internal/api/dto"
	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getMyProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/profile",
		Summary:     "Get own account",
		Description: "Returns the caller's account details",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMyProfile",
		Method:      http.MethodPut,
		Path:        "/api/v1/me/profile",
		Summary:     "Update own profile",
		Description: "Updates name, bio and profile image. Omitted fields are left alone.",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMyProfile)
}

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getUserProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user profile",
		Description: "Returns a profile as the caller sees it. Private profiles only expose id, name and profile_image.",
		Tags:        []string{"Users"},
	}, s.handleGetUserProfile)
}

// === DTOs ===

// ProfileStats holds the counts shown on a profile. Hidden counts are omitted.
type ProfileStats struct {
	Recipes   int  `json:"recipes" doc:"Number of recipes visible to the caller"`
	Followers *int `json:"followers,omitempty" doc:"Follower count, when the owner shows it"`
	Following *int `json:"following,omitempty" doc:"Following count, when the owner shows it"`
}

// ProfileResponse is a user's profile. When private is true only the
// identity fields are present.
type ProfileResponse struct {
	ID           string              `json:"id" doc:"User ID"`
	Name         string              `json:"name" doc:"Display name"`
	ProfileImage string              `json:"profile_image,omitempty" doc:"Profile image URL"`
	Private      bool                `json:"private" doc:"Whether the profile is hidden from the caller"`
	Bio          *string             `json:"bio,omitempty" doc:"Short biography"`
	Email        string              `json:"email,omitempty" doc:"Email, when the owner shows it"`
	CreatedAt    *time.Time          `json:"created_at,omitempty" doc:"Member since"`
	LastActive   *time.Time          `json:"last_active,omitempty" doc:"Last activity, when the owner shows it"`
	Stats        *ProfileStats       `json:"stats,omitempty" doc:"Recipe and follow counts"`
	Recipes      []dto.Recipe        `json:"recipes,omitzero" doc:"Most recent visible recipes"`
	Favorites    []dto.Favorite      `json:"favorites,omitzero" doc:"Saved recipes in public collections, when the owner shows them"`
	IsFollowing  *bool               `json:"is_following,omitempty" doc:"Whether the caller follows this user"`
	IsOwner      *bool               `json:"is_owner,omitempty" doc:"Whether this is the caller's own profile"`
	Settings     *domain.Preferences `json:"settings,omitempty" doc:"The owner's preferences, only for the owner"`
}

// ProfileOutput wraps the profile for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// UserIDInput identifies a user by path.
type UserIDInput struct {
	ID string `path:"id" doc:"User ID"`
}

// UpdateProfileRequest is a partial update of the caller's profile.
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty" doc:"Display name"`
	Bio          *string `json:"bio,omitempty" doc:"Short biography"`
	ProfileImage *string `json:"profile_image,omitempty" doc:"Profile image URL or data URI"`
}

// UpdateProfileInput wraps the update for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

// UserOutput wraps an account for Huma.
type UserOutput struct {
	Body UserResponse
}

// === Handlers ===

func (s *Server) handleGetUserProfile(ctx context.Context, input *UserIDInput) (*ProfileOutput, error) {
	profile, err := s.services.Profile.GetProfile(ctx, OptionalUserID(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: mapProfile(profile)}, nil
}

func (s *Server) handleGetMyProfile(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleUpdateMyProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.UpdateOwnProfile(ctx, userID, service.UpdateProfileRequest{
		Name:         input.Body.Name,
		Bio:          input.Body.Bio,
		ProfileImage: input.Body.ProfileImage,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: mapUser(user)}, nil
}

func mapProfile(p *service.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:           p.User.ID,
		Name:         p.User.Name,
		ProfileImage: p.User.ProfileImage,
		Private:      p.Private,
	}
	d := p.Details
	if d == nil {
		return resp
	}

	resp.Bio = &d.Bio
	resp.Email = d.Email
	resp.CreatedAt = &d.CreatedAt
	resp.LastActive = d.LastActive
	resp.Stats = &ProfileStats{
		Recipes:   d.RecipeCount,
		Followers: d.Followers,
		Following: d.Following,
	}
	resp.Recipes = dto.NewRecipes(d.Recipes)
	if d.Favorites != nil {
		resp.Favorites = dto.NewFavorites(d.Favorites)
	}
	resp.IsFollowing = &d.IsFollowing
	resp.IsOwner = &d.IsOwner
	resp.Settings = d.Settings
	return resp
}
