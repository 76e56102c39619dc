package store

import (
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
)

// UserRef is the public identity shown next to content.
type UserRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// RecipeFilter narrows the public feed.
type RecipeFilter struct {
	Tag  string
	Page Page
}

// RecipeSummary is a recipe with its author and live counts.
type RecipeSummary struct {
	Recipe       domain.Recipe
	Author       UserRef
	LikeCount    int
	CommentCount int
}

// SharedRecipe is a recipe someone else owns on which the user holds a grant.
type SharedRecipe struct {
	RecipeSummary
	Capabilities domain.CapabilitySet
}

// EditorEntry is a grant joined with the grantee's identity.
type EditorEntry struct {
	Grant domain.Grant
	User  UserRef
}

// FavoriteEntry is a favorited recipe.
type FavoriteEntry struct {
	RecipeSummary
	Collection string
	SavedAt    time.Time
	// CollectionIsPublic is nil when no collection row matches the favorite.
	CollectionIsPublic *bool
}

// CollectionSummary is a collection with the number of recipes filed in it.
type CollectionSummary struct {
	Collection  domain.Collection
	RecipeCount int
}

// FollowEntry is one side of a follow edge.
type FollowEntry struct {
	User       UserRef
	FollowedAt time.Time
}

// FollowCounts are the two sizes of a user's social graph.
type FollowCounts struct {
	Followers int
	Following int
}

// UserSearchResult is a searchable user matched by name.
type UserSearchResult struct {
	User          UserRef
	RecipeCount   int
	FollowerCount int
	IsFollowing   bool
}

// CommentEntry is a comment joined with its author.
type CommentEntry struct {
	Comment domain.Comment
	Author  UserRef
}

// DigestSubscriber is a user who receives the weekly digest.
type DigestSubscriber struct {
	UserID string
	Email  string
	Name   string
}

// DigestRecipe is a trending recipe listed in the digest.
type DigestRecipe struct {
	ID          string
	Title       string
	Description string
	Image       string
	AuthorName  string
	LikeCount   int
}
