package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/cookfeed/cookfeed-server/internal/metrics"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

const (
	// DigestRecipeLimit is how many trending recipes a digest lists.
	DigestRecipeLimit = 5
	// DigestWindow is how far back "trending" looks before falling back
	// to all-time favorites.
	DigestWindow = 7 * 24 * time.Hour
)

// Digest triggers, used as the metrics label.
const (
	DigestTriggerCron   = "cron"
	DigestTriggerManual = "manual"
)

// DigestEmail is one weekly digest addressed to one subscriber.
type DigestEmail struct {
	To      string
	Name    string
	Recipes []store.DigestRecipe
}

// DigestSender delivers digest emails. The mail transport is outside this
// service; LogSender stands in when none is configured.
type DigestSender interface {
	SendDigest(ctx context.Context, email DigestEmail) error
}

// LogSender writes digests to the log instead of sending them.
type LogSender struct {
	Logger *slog.Logger
}

// SendDigest logs the email.
func (s LogSender) SendDigest(_ context.Context, email DigestEmail) error {
	s.Logger.Info("Weekly digest (not sent, no mail transport)",
		"to", email.To,
		"recipes", len(email.Recipes),
	)
	return nil
}

// DigestStats summarizes a digest run.
type DigestStats struct {
	RunID           string `json:"run_id"`
	TotalUsers      int    `json:"total_users"`
	SubscribedUsers int    `json:"subscribed_users"`
	EmailsSent      int    `json:"emails_sent"`
	EmailsFailed    int    `json:"emails_failed"`
	RecipesIncluded int    `json:"recipes_included"`
}

// DigestService sends the weekly digest of trending recipes to every
// subscriber, one at a time, no faster than the configured interval.
type DigestService struct {
	store    store.Store
	sender   DigestSender
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewDigestService creates a digest service. interval is the minimum gap
// between two sends; zero sends as fast as the sender allows. m may be nil.
func NewDigestService(store store.Store, sender DigestSender, interval time.Duration, m *metrics.Metrics, logger *slog.Logger) *DigestService {
	return &DigestService{
		store:    store,
		sender:   sender,
		interval: interval,
		metrics:  m,
		logger:   logger,
	}
}

// Run sends one digest batch. A failed send is counted and the batch goes
// on; only store errors and cancellation abort the run.
func (s *DigestService) Run(ctx context.Context, trigger string) (stats *DigestStats, err error) {
	start := time.Now()
	stats = &DigestStats{RunID: uuid.NewString()}
	log := s.logger.With("run_id", stats.RunID, "trigger", trigger)

	defer func() {
		s.metrics.ObserveDigest(trigger, err, stats.EmailsSent, stats.EmailsFailed, time.Since(start))
	}()

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	total, err := s.store.CountUsers(ctx)
	if err != nil {
		return stats, fmt.Errorf("count users: %w", err)
	}
	stats.TotalUsers = total

	subscribers, err := s.store.ListDigestSubscribers(ctx)
	if err != nil {
		return stats, fmt.Errorf("list subscribers: %w", err)
	}
	stats.SubscribedUsers = len(subscribers)

	recipes, err := s.Trending(ctx)
	if err != nil {
		return stats, err
	}
	stats.RecipesIncluded = len(recipes)

	log.Info("Weekly digest started",
		"subscribers", stats.SubscribedUsers,
		"recipes", stats.RecipesIncluded,
	)

	limiter := s.newLimiter()
	for _, sub := range subscribers {
		if err := limiter.Wait(ctx); err != nil {
			return stats, fmt.Errorf("digest interrupted: %w", err)
		}

		email := DigestEmail{To: sub.Email, Name: sub.Name, Recipes: recipes}
		if err := s.sender.SendDigest(ctx, email); err != nil {
			stats.EmailsFailed++
			log.Warn("failed to send digest", "user_id", sub.UserID, "error", err)
			continue
		}
		stats.EmailsSent++
	}

	log.Info("Weekly digest finished",
		"sent", stats.EmailsSent,
		"failed", stats.EmailsFailed,
		"duration", time.Since(start),
	)
	return stats, nil
}

// Trending returns the most liked public recipes of the last week, or of
// all time when nothing was published this week.
func (s *DigestService) Trending(ctx context.Context) ([]store.DigestRecipe, error) {
	recipes, err := s.store.TrendingRecipes(ctx, now().Add(-DigestWindow), DigestRecipeLimit)
	if err != nil {
		return nil, fmt.Errorf("trending recipes: %w", err)
	}
	if len(recipes) > 0 {
		return recipes, nil
	}

	recipes, err = s.store.TrendingRecipes(ctx, time.Time{}, DigestRecipeLimit)
	if err != nil {
		return nil, fmt.Errorf("all-time recipes: %w", err)
	}
	return recipes, nil
}

// newLimiter paces sends. The first send goes out immediately.
func (s *DigestService) newLimiter() *rate.Limiter {
	if s.interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(s.interval), 1)
}
