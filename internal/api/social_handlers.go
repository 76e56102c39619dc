package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cookfeed/cookfeed-server/internal/api/dto"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/search",
		Summary:     "Search users",
		Description: "Finds searchable users by name. Queries shorter than two characters return nothing.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Follow user",
		Description: "Follows a user. Following twice succeeds with already_following set.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollow)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Unfollow user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollow)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/following",
		Summary:     "List following",
		Description: "Lists who a user follows. Answers 403 PRIVATE when the owner hides the list.",
		Tags:        []string{"Social"},
	}, s.handleListFollowing)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/followers",
		Summary:     "List followers",
		Description: "Lists who follows a user. Answers 403 PRIVATE when the owner hides the list.",
		Tags:        []string{"Social"},
	}, s.handleListFollowers)
}

// === DTOs ===

// SearchUsersInput contains the user search query.
type SearchUsersInput struct {
	Query string `query:"q" maxLength:"100" doc:"Name fragment, at least two characters"`
}

// UserSearchResult is one user search hit.
type UserSearchResult struct {
	dto.UserRef
	RecipeCount   int  `json:"recipe_count" doc:"Number of public recipes"`
	FollowerCount int  `json:"follower_count" doc:"Number of followers"`
	IsFollowing   bool `json:"is_following" doc:"Whether the caller follows this user"`
}

// SearchUsersOutput wraps the hits for Huma.
type SearchUsersOutput struct {
	Body struct {
		Users []UserSearchResult `json:"users" doc:"Matching users"`
	}
}

// FollowResponse reports the outcome of a follow.
type FollowResponse struct {
	Following        bool `json:"following" doc:"Always true after a successful follow"`
	AlreadyFollowing bool `json:"already_following" doc:"Whether the caller already followed this user"`
}

// FollowOutput wraps the follow result for Huma.
type FollowOutput struct {
	Body FollowResponse
}

// FollowEntry is one user in a follow list.
type FollowEntry struct {
	dto.UserRef
	FollowedAt time.Time `json:"followed_at" doc:"When the follow happened"`
}

// FollowListOutput wraps a follow list for Huma.
type FollowListOutput struct {
	Body struct {
		Users []FollowEntry `json:"users" doc:"Users, most recent follow first"`
	}
}

// === Handlers ===

func (s *Server) handleSearchUsers(ctx context.Context, input *SearchUsersInput) (*SearchUsersOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	results, err := s.services.Social.SearchUsers(ctx, userID, input.Query)
	if err != nil {
		return nil, err
	}

	out := &SearchUsersOutput{}
	out.Body.Users = make([]UserSearchResult, 0, len(results))
	for _, r := range results {
		out.Body.Users = append(out.Body.Users, UserSearchResult{
			UserRef:       dto.NewUserRef(r.User),
			RecipeCount:   r.RecipeCount,
			FollowerCount: r.FollowerCount,
			IsFollowing:   r.IsFollowing,
		})
	}
	return out, nil
}

func (s *Server) handleFollow(ctx context.Context, input *UserIDInput) (*FollowOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Social.Follow(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &FollowOutput{
		Body: FollowResponse{Following: true, AlreadyFollowing: result.AlreadyFollowing},
	}, nil
}

func (s *Server) handleUnfollow(ctx context.Context, input *UserIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleListFollowing(ctx context.Context, input *UserIDInput) (*FollowListOutput, error) {
	entries, err := s.services.Social.ListFollowing(ctx, OptionalUserID(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return mapFollowList(entries), nil
}

func (s *Server) handleListFollowers(ctx context.Context, input *UserIDInput) (*FollowListOutput, error) {
	entries, err := s.services.Social.ListFollowers(ctx, OptionalUserID(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return mapFollowList(entries), nil
}

func mapFollowList(entries []store.FollowEntry) *FollowListOutput {
	out := &FollowListOutput{}
	out.Body.Users = make([]FollowEntry, 0, len(entries))
	for _, e := range entries {
		out.Body.Users = append(out.Body.Users, FollowEntry{
			UserRef:    dto.NewUserRef(e.User),
			FollowedAt: e.FollowedAt,
		})
	}
	return out
}
