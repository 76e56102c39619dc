// Package store defines the persistence interface for the CookFeed server.
package store

import (
	"context"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Implementations enforce uniqueness with constraints rather than pre-checks:
// a racing duplicate insert must surface as ErrAlreadyExists.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Users
	// CreateUser inserts the user together with their preferences row and
	// default collection in one transaction.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserProfile(ctx context.Context, userID string, update domain.ProfileUpdate, now time.Time) (*domain.User, error)
	SearchUsers(ctx context.Context, viewerID, query string, limit int) ([]UserSearchResult, error)
	CountUsers(ctx context.Context) (int, error)

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)

	// Preferences
	// GetPreferences returns ErrNotFound when the user never saved any.
	GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error)
	// UpsertPreferences applies patch atomically. Fields absent from patch
	// keep their stored value, or the default when no row exists yet.
	// last_active is set to now.
	UpsertPreferences(ctx context.Context, userID string, patch domain.PreferencesPatch, now time.Time) (*domain.Preferences, error)

	// Recipes
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) error
	GetRecipe(ctx context.Context, id string) (*domain.Recipe, error)
	GetRecipeSummary(ctx context.Context, id string) (*RecipeSummary, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	ListPublicRecipes(ctx context.Context, filter RecipeFilter) ([]RecipeSummary, error)
	ListRecipesByOwner(ctx context.Context, ownerID string, publicOnly bool) ([]RecipeSummary, error)
	ListMadeRecipes(ctx context.Context, userID string) ([]RecipeSummary, error)
	ListSharedRecipes(ctx context.Context, userID string) ([]SharedRecipe, error)
	ListAllRecipes(ctx context.Context) ([]RecipeSummary, error)
	GetRecipeSummaries(ctx context.Context, ids []string) ([]RecipeSummary, error)

	// Recipe grants
	GetGrant(ctx context.Context, recipeID, userID string) (*domain.Grant, error)
	UpsertGrant(ctx context.Context, grant *domain.Grant) error
	// UpdateGrant changes only the capability bits and updated_at.
	UpdateGrant(ctx context.Context, recipeID, userID string, caps domain.CapabilitySet, now time.Time) error
	DeleteGrant(ctx context.Context, recipeID, userID string) (bool, error)
	ListGrants(ctx context.Context, recipeID string) ([]EditorEntry, error)

	// Engagement
	AddLike(ctx context.Context, userID, recipeID string, now time.Time) error
	RemoveLike(ctx context.Context, userID, recipeID string) error
	CountLikes(ctx context.Context, recipeID string) (int, error)
	AddMade(ctx context.Context, userID, recipeID string, now time.Time) error
	RemoveMade(ctx context.Context, userID, recipeID string) error
	// SaveFavorite inserts or moves the favorite for (user, recipe).
	SaveFavorite(ctx context.Context, fav *domain.Favorite) error
	RemoveFavorite(ctx context.Context, userID, recipeID string) error
	GetFavorite(ctx context.Context, userID, recipeID string) (*domain.Favorite, error)
	GetEngagement(ctx context.Context, userID, recipeID string) (domain.EngagementState, error)
	// ListFavorites returns userID's favorites; an empty collection means all.
	ListFavorites(ctx context.Context, userID, collection string) ([]FavoriteEntry, error)
	CountFavorites(ctx context.Context, userID string) (int, error)

	// Collections
	CreateCollection(ctx context.Context, c *domain.Collection) error
	// EnsureCollection inserts c unless the owner already has one by that name.
	EnsureCollection(ctx context.Context, c *domain.Collection) error
	GetCollection(ctx context.Context, id string) (*domain.Collection, error)
	ListCollections(ctx context.Context, ownerID string) ([]CollectionSummary, error)
	// UpdateCollection renames and/or flips visibility. A rename moves the
	// collection's favorites along with it.
	UpdateCollection(ctx context.Context, ownerID, id string, update domain.CollectionUpdate) (*domain.Collection, error)
	// DeleteCollection moves the collection's favorites to the default
	// collection and removes the row, atomically.
	DeleteCollection(ctx context.Context, ownerID, id string) error

	// Follows
	// Follow reports whether a new edge was created.
	Follow(ctx context.Context, followerID, followedID string, now time.Time) (bool, error)
	Unfollow(ctx context.Context, followerID, followedID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	ListFollowing(ctx context.Context, userID string) ([]FollowEntry, error)
	ListFollowers(ctx context.Context, userID string) ([]FollowEntry, error)
	CountFollows(ctx context.Context, userID string) (FollowCounts, error)

	// Comments
	CreateComment(ctx context.Context, c *domain.Comment) error
	GetComment(ctx context.Context, id string) (*domain.Comment, error)
	UpdateComment(ctx context.Context, id, content string, now time.Time) error
	DeleteComment(ctx context.Context, id string) error
	ListComments(ctx context.Context, recipeID string) ([]CommentEntry, error)

	// Digest
	ListDigestSubscribers(ctx context.Context) ([]DigestSubscriber, error)
	// TrendingRecipes ranks public recipes created at or after since by live
	// like count. A zero since means all time.
	TrendingRecipes(ctx context.Context, since time.Time, limit int) ([]DigestRecipe, error)
}
