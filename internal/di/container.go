// Package di provides dependency injection configuration for the CookFeed server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/cookfeed/cookfeed-server/internal/auth"
	"github.com/cookfeed/cookfeed-server/internal/config"
	"github.com/cookfeed/cookfeed-server/internal/di/providers"
	"github.com/cookfeed/cookfeed-server/internal/logger"
	"github.com/cookfeed/cookfeed-server/internal/metrics"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePolicy)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideRecipeService)
	do.Provide(injector, providers.ProvideCollaborationService)
	do.Provide(injector, providers.ProvideEngagementService)
	do.Provide(injector, providers.ProvideCommentService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideSocialService)
	do.Provide(injector, providers.ProvidePreferencesService)
	do.Provide(injector, providers.ProvideDigestService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)
	do.Provide(injector, providers.ProvideDigestScheduler)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*metrics.Metrics](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*policy.Policy](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.RecipeService](injector)
	_ = do.MustInvoke[*service.DigestService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)
	_ = do.MustInvoke[*providers.DigestSchedulerHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index if it was lost or its mapping changed
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
