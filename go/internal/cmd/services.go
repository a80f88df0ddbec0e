package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftwatch/go/clients/groupme_client"
	"github.com/mcdev12/draftwatch/go/clients/mfl_client"
	"github.com/mcdev12/draftwatch/go/internal/config"
	"github.com/mcdev12/draftwatch/go/internal/notify"
	"github.com/mcdev12/draftwatch/go/internal/watcher"
)

type Deps struct {
	Source  watcher.LeagueSource
	Watcher watcher.Deps
}

// setupDeps builds the clients the configured leagues need. Redis and NATS
// are only dialed when some league uses them.
func setupDeps(ctx context.Context, cfg *config.Config) (*Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Deps{
		Source: mfl_client.NewMFLClient(mfl_client.Config{
			BaseURL:   cfg.MFL.BaseURL,
			Year:      cfg.Season(),
			APIKey:    cfg.MFL.APIKey,
			UserAgent: cfg.MFL.UserAgent,
			Timeout:   cfg.MFL.Timeout,
		}),
		Watcher: watcher.Deps{
			GroupMe: groupme_client.NewGroupMeClient(cfg.GroupMe.BaseURL),
		},
	}

	if usesRedis(cfg) && cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, cleanup, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		deps.Watcher.Redis = client
		log.Info().Str("addr", opts.Addr).Msg("connected to redis")
	}

	if publishesEvents(cfg) && cfg.NATS.URL != "" {
		jsCfg := notify.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATS.URL
		if cfg.NATS.Stream != "" {
			jsCfg.StreamName = cfg.NATS.Stream
		}
		if cfg.NATS.SubjectPrefix != "" {
			jsCfg.SubjectPrefix = cfg.NATS.SubjectPrefix
		}
		sink, err := notify.NewJetStreamSink(ctx, jsCfg)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to set up event publishing: %w", err)
		}
		closers = append(closers, func() { _ = sink.Close() })
		deps.Watcher.Events = sink
		log.Info().Str("stream", jsCfg.StreamName).Msg("connected to JetStream")
	}

	return deps, cleanup, nil
}

func usesRedis(cfg *config.Config) bool {
	for _, l := range cfg.Leagues {
		if l.StateBackend == config.StateBackendRedis {
			return true
		}
	}
	return false
}

func publishesEvents(cfg *config.Config) bool {
	for _, l := range cfg.Leagues {
		if l.PublishEvents {
			return true
		}
	}
	return false
}
