package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

const (
	// MinUserSearchLength is the shortest query SearchUsers answers.
	MinUserSearchLength = 2
	// UserSearchLimit caps SearchUsers results.
	UserSearchLimit = 10
)

// SocialService manages follows and user discovery.
type SocialService struct {
	store  store.Store
	policy *policy.Policy
	logger *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(store store.Store, policy *policy.Policy, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// FollowResult reports whether the edge already existed.
type FollowResult struct {
	AlreadyFollowing bool
}

// Follow makes followerID follow followedID. Following twice succeeds and
// leaves a single edge.
func (s *SocialService) Follow(ctx context.Context, followerID, followedID string) (*FollowResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if followerID == followedID {
		return nil, domainerrors.Validation("you cannot follow yourself")
	}
	if _, err := s.store.GetUser(ctx, followedID); err != nil {
		return nil, notFound(err, "user not found", "get user")
	}

	created, err := s.store.Follow(ctx, followerID, followedID, now())
	if err != nil {
		return nil, notFound(err, "user not found", "follow")
	}

	if created {
		s.logger.Info("User followed", "follower_id", followerID, "followed_id", followedID)
	}
	return &FollowResult{AlreadyFollowing: !created}, nil
}

// Unfollow removes the edge. A missing edge is not an error.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followedID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if followerID == followedID {
		return domainerrors.Validation("you cannot unfollow yourself")
	}

	removed, err := s.store.Unfollow(ctx, followerID, followedID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	if removed {
		s.logger.Info("User unfollowed", "follower_id", followerID, "followed_id", followedID)
	}
	return nil
}

// ListFollowing returns who targetID follows.
func (s *SocialService) ListFollowing(ctx context.Context, viewerID, targetID string) ([]store.FollowEntry, error) {
	return s.listFollows(ctx, viewerID, targetID, s.store.ListFollowing)
}

// ListFollowers returns who follows targetID.
func (s *SocialService) ListFollowers(ctx context.Context, viewerID, targetID string) ([]store.FollowEntry, error) {
	return s.listFollows(ctx, viewerID, targetID, s.store.ListFollowers)
}

func (s *SocialService) listFollows(
	ctx context.Context,
	viewerID, targetID string,
	list func(context.Context, string) ([]store.FollowEntry, error),
) ([]store.FollowEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, notFound(err, "user not found", "get user")
	}
	prefs, err := loadPreferences(ctx, s.store, targetID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanViewFollowList(viewerID, targetID, prefs) {
		return nil, domainerrors.Private("this list is private", target.ID, target.DisplayName())
	}

	entries, err := list(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	if entries == nil {
		entries = []store.FollowEntry{}
	}
	return entries, nil
}

// SearchUsers finds searchable users by name, excluding the viewer.
// Queries shorter than MinUserSearchLength return nothing.
func (s *SocialService) SearchUsers(ctx context.Context, viewerID, query string) ([]store.UserSearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinUserSearchLength {
		return []store.UserSearchResult{}, nil
	}

	results, err := s.store.SearchUsers(ctx, viewerID, query, UserSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if results == nil {
		results = []store.UserSearchResult{}
	}
	return results, nil
}
