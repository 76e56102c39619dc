package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/cookfeed/cookfeed-server/internal/api"
	"github.com/cookfeed/cookfeed-server/internal/config"
	"github.com/cookfeed/cookfeed-server/internal/logger"
	"github.com/cookfeed/cookfeed-server/internal/metrics"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:          do.MustInvoke[*service.AuthService](i),
		Recipe:        do.MustInvoke[*service.RecipeService](i),
		Collaboration: do.MustInvoke[*service.CollaborationService](i),
		Engagement:    do.MustInvoke[*service.EngagementService](i),
		Comment:       do.MustInvoke[*service.CommentService](i),
		Collection:    do.MustInvoke[*service.CollectionService](i),
		Profile:       do.MustInvoke[*service.ProfileService](i),
		Social:        do.MustInvoke[*service.SocialService](i),
		Preferences:   do.MustInvoke[*service.PreferencesService](i),
		Search:        do.MustInvoke[*service.SearchService](i),
		Digest:        do.MustInvoke[*service.DigestService](i),
	}

	opts := api.Options{
		AllowedOrigins:         cfg.Server.AllowedOrigins,
		AuthRateLimitPerMinute: cfg.Auth.RateLimitPerMinute,
		AuthRateLimitBurst:     cfg.Auth.RateLimitBurst,
		DigestSecret:           cfg.Digest.Secret,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = do.MustInvoke[*metrics.Metrics](i)
	}

	handler := api.NewServer(storeHandle.Store, services, opts, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
