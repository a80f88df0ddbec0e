package watcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftwatch/go/clients/groupme_client"
	"github.com/mcdev12/draftwatch/go/internal/config"
	"github.com/mcdev12/draftwatch/go/internal/draft"
	"github.com/mcdev12/draftwatch/go/internal/lock"
	"github.com/mcdev12/draftwatch/go/internal/notify"
)

// Deps are the shared clients a Runner hands to each league. Redis and Events
// may be nil when no league uses them.
type Deps struct {
	GroupMe *groupme_client.GroupMeClient
	Redis   redis.UniversalClient
	Events  notify.Sink
}

// Runner checks every configured league in turn.
type Runner struct {
	app  *App
	cfg  *config.Config
	deps Deps
}

func NewRunner(app *App, cfg *config.Config, deps Deps) *Runner {
	return &Runner{app: app, cfg: cfg, deps: deps}
}

// Run checks the leagues sequentially. A league with an invalid configuration
// is logged and skipped. Any other failure stops the run and is returned.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.New().String()[:8]

	for _, lc := range r.cfg.Leagues {
		logger := log.Ctx(ctx).With().
			Str("run_id", runID).
			Str("league", lc.Name).
			Str("league_id", lc.LeagueID).
			Logger()
		leagueCtx := logger.WithContext(ctx)

		if err := lc.Validate(r.cfg); err != nil {
			logger.Error().Err(err).Msg("invalid league configuration, skipping")
			continue
		}

		league, err := r.League(lc)
		if err != nil {
			logger.Error().Err(err).Msg("invalid league configuration, skipping")
			continue
		}

		result, err := r.app.Watch(leagueCtx, league)
		if err != nil {
			logger.Error().Err(err).Msg("caught unhandled error")
			return fmt.Errorf("league %s: %w", lc.Name, err)
		}
		if result.NewPicks > 0 {
			logger.Info().Int("new_picks", result.NewPicks).Msg("announced new picks")
		}
	}

	return nil
}

// League resolves a league's configuration into its state store, lock and
// notification sinks.
func (r *Runner) League(lc config.LeagueConfig) (League, error) {
	l := League{
		ID:             lc.LeagueID,
		Name:           lc.Name,
		PlayerCache:    lc.PlayerCache,
		LeagueCache:    lc.LeagueCache,
		FranchiseCache: lc.FranchiseCache,
	}

	switch lc.StateBackend {
	case config.StateBackendFile:
		l.Store = draft.NewFileStore(lc.DraftCache)
		l.Guard = lock.NewFileGuard(lock.PathFor(lc.DraftCache), r.cfg.LockTimeout)
	case config.StateBackendRedis:
		if r.deps.Redis == nil {
			return League{}, errors.New("redis state backend requested but no redis client is configured")
		}
		season := r.cfg.Season()
		l.Store = draft.NewRedisStore(r.deps.Redis, season, lc.LeagueID)
		l.Guard = lock.NewRedisGuard(r.deps.Redis, lock.RedisLockKey(season, lc.LeagueID), r.cfg.LockTimeout)
	default:
		return League{}, fmt.Errorf("unknown state backend %q", lc.StateBackend)
	}

	var sinks []notify.Sink
	if lc.BotID != "" {
		if r.deps.GroupMe == nil {
			return League{}, errors.New("bot_id configured but no GroupMe client is available")
		}
		sinks = append(sinks, notify.NewGroupMeSink(r.deps.GroupMe, lc.BotID))
	}
	if lc.PublishEvents {
		if r.deps.Events == nil {
			return League{}, errors.New("publish_events enabled but no event sink is configured")
		}
		sinks = append(sinks, r.deps.Events)
	}
	l.Notifier = notify.NewDispatcher(r.notifyConfig(), sinks...)

	return l, nil
}

func (r *Runner) notifyConfig() notify.Config {
	cfg := notify.DefaultConfig()
	if r.cfg.Notify.MaxRetries != nil {
		cfg.MaxRetries = *r.cfg.Notify.MaxRetries
	}
	if r.cfg.Notify.RetryDelay > 0 {
		cfg.RetryDelay = r.cfg.Notify.RetryDelay
	}
	return cfg
}
