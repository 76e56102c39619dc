package providers

import (
	"github.com/samber/do/v2"

	"github.com/cookfeed/cookfeed-server/internal/auth"
	"github.com/cookfeed/cookfeed-server/internal/config"
	"github.com/cookfeed/cookfeed-server/internal/logger"
	"github.com/cookfeed/cookfeed-server/internal/metrics"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

// ProvidePolicy provides the access policy shared by every service.
func ProvidePolicy(i do.Injector) (*policy.Policy, error) {
	return policy.New(), nil
}

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideRecipeService provides the recipe service. Writes keep the
// search index in step.
func ProvideRecipeService(i do.Injector) (*service.RecipeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	pol := do.MustInvoke[*policy.Policy](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecipeService(storeHandle.Store, pol, searchService, log.Logger), nil
}

// ProvideCollaborationService provides the editor grant service.
func ProvideCollaborationService(i do.Injector) (*service.CollaborationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	pol := do.MustInvoke[*policy.Policy](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollaborationService(storeHandle.Store, pol, log.Logger), nil
}

// ProvideEngagementService provides likes, made marks and favorites.
func ProvideEngagementService(i do.Injector) (*service.EngagementService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	pol := do.MustInvoke[*policy.Policy](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEngagementService(storeHandle.Store, pol, log.Logger), nil
}

// ProvideCommentService provides the comment service.
func ProvideCommentService(i do.Injector) (*service.CommentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	pol := do.MustInvoke[*policy.Policy](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCommentService(storeHandle.Store, pol, log.Logger), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollectionService(storeHandle.Store, log.Logger), nil
}

// ProvideProfileService provides the profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	pol := do.MustInvoke[*policy.Policy](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, pol, log.Logger), nil
}

// ProvideSocialService provides the follow graph service.
func ProvideSocialService(i do.Injector) (*service.SocialService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	pol := do.MustInvoke[*policy.Policy](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSocialService(storeHandle.Store, pol, log.Logger), nil
}

// ProvidePreferencesService provides the preferences service.
func ProvidePreferencesService(i do.Injector) (*service.PreferencesService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPreferencesService(storeHandle.Store, log.Logger), nil
}

// ProvideDigestService provides the weekly digest service. Emails go to
// the log until a mail transport is configured.
func ProvideDigestService(i do.Injector) (*service.DigestService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	sender := service.LogSender{Logger: log.Logger}
	return service.NewDigestService(storeHandle.Store, sender, cfg.Digest.SendInterval, m, log.Logger), nil
}
