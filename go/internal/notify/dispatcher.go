package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	MaxRetries int
	RetryDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		RetryDelay: time.Second,
	}
}

// Dispatcher hands a notification to every configured sink. Each sink is
// retried independently; one failing sink does not stop the others.
type Dispatcher struct {
	sinks  []Sink
	config Config
}

func NewDispatcher(cfg Config, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, config: cfg}
}

// Send returns the joined errors of every sink that failed after retries.
func (d *Dispatcher) Send(ctx context.Context, n Notification) error {
	var errs []error
	for _, sink := range d.sinks {
		if err := d.sendWithRetry(ctx, sink, n); err != nil {
			log.Ctx(ctx).Error().
				Err(err).
				Str("sink", sink.Name()).
				Msg("failed to deliver notification")
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		log.Ctx(ctx).Info().Str("sink", sink.Name()).Int("picks", len(n.Picks)).Msg("delivered notification")
	}
	return errors.Join(errs...)
}

// sendWithRetry always makes at least one attempt. Errors a RetryPolicy sink
// reports as not retryable end the loop early.
func (d *Dispatcher) sendWithRetry(ctx context.Context, sink Sink, n Notification) error {
	var lastErr error
	attempts := max(d.config.MaxRetries, 0) + 1
	policy, hasPolicy := sink.(RetryPolicy)

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.config.RetryDelay * time.Duration(attempt)):
			}
		}

		err := sink.Send(ctx, n)
		if err == nil {
			return nil
		}
		lastErr = err

		if hasPolicy && !policy.Retryable(err) {
			return fmt.Errorf("failed after %d attempts, not retrying: %w", attempt+1, err)
		}
		log.Ctx(ctx).Warn().
			Err(err).
			Str("sink", sink.Name()).
			Int("attempt", attempt+1).
			Msg("failed to send notification, retrying")
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
