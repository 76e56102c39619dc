package providers

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/do/v2"

	"github.com/cookfeed/cookfeed-server/internal/config"
	"github.com/cookfeed/cookfeed-server/internal/logger"
	"github.com/cookfeed/cookfeed-server/internal/metrics"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

// sessionCleanupInterval is how often expired sessions are purged.
const sessionCleanupInterval = time.Hour

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	purge := func() {
		count, err := sessions.DeleteExpiredSessions(ctx)
		if err != nil {
			log.Warn("Session cleanup failed", "error", err)
			return
		}
		m.ObservePurge(count)
	}

	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()

		// Initial cleanup on startup
		purge()

		for {
			select {
			case <-ticker.C:
				purge()
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}

// DigestSchedulerHandle owns the cron scheduler that sends the weekly digest.
type DigestSchedulerHandle struct {
	cron   *cron.Cron
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable. A running batch is cancelled and
// awaited.
func (h *DigestSchedulerHandle) Shutdown() error {
	if h.cron == nil {
		return nil
	}
	h.cancel()
	stopped := h.cron.Stop()

	select {
	case <-stopped.Done():
	case <-time.After(shutdownTimeout):
	}
	return nil
}

// ProvideDigestScheduler schedules the weekly digest. Overlapping runs are
// skipped, so a slow batch never doubles up with the next one.
func ProvideDigestScheduler(i do.Injector) (*DigestSchedulerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	digest := do.MustInvoke[*service.DigestService](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Digest.Enabled {
		log.Info("Weekly digest scheduler disabled by configuration")
		return &DigestSchedulerHandle{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	_, err := c.AddFunc(cfg.Digest.Schedule, func() {
		if _, err := digest.Run(ctx, service.DigestTriggerCron); err != nil {
			log.Error("Scheduled weekly digest failed", "error", err)
		}
	})
	if err != nil {
		cancel()
		return nil, err
	}
	c.Start()

	log.Info("Weekly digest scheduled", "schedule", cfg.Digest.Schedule)

	return &DigestSchedulerHandle{cron: c, cancel: cancel}, nil
}
