package api

import (
	"github.com/cookfeed/cookfeed-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth          *service.AuthService
	Recipe        *service.RecipeService
	Collaboration *service.CollaborationService // Per-recipe editor grants
	Engagement    *service.EngagementService    // Likes, made, favorites
	Comment       *service.CommentService
	Collection    *service.CollectionService
	Profile       *service.ProfileService
	Social        *service.SocialService
	Preferences   *service.PreferencesService
	Search        *service.SearchService
	Digest        *service.DigestService // Weekly digest batch
}
