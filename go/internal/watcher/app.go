// Package watcher runs one check of a league's draft: it refreshes the cached
// league data, diffs the live draft against the persisted state and
// announces every pick not seen before.
package watcher

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftwatch/go/clients/mfl_client"
	"github.com/mcdev12/draftwatch/go/internal/cache"
	"github.com/mcdev12/draftwatch/go/internal/draft"
	"github.com/mcdev12/draftwatch/go/internal/draft/events"
	"github.com/mcdev12/draftwatch/go/internal/format"
	"github.com/mcdev12/draftwatch/go/internal/fsutil"
	"github.com/mcdev12/draftwatch/go/internal/lock"
	"github.com/mcdev12/draftwatch/go/internal/models"
	"github.com/mcdev12/draftwatch/go/internal/notify"
)

// LeagueSource is the upstream league data provider
type LeagueSource interface {
	GetPlayers(ctx context.Context) ([]models.Player, error)
	GetLeague(ctx context.Context, leagueID string) (*mfl_client.League, error)
	GetDraftResults(ctx context.Context, leagueID string) ([]models.DraftPick, error)
}

// Notifier announces a run's new picks
type Notifier interface {
	Send(ctx context.Context, n notify.Notification) error
}

// League is everything a single check needs to know about one league.
type League struct {
	ID             string
	Name           string
	PlayerCache    string
	LeagueCache    string
	FranchiseCache string

	Store    draft.StateStore
	Guard    lock.Guard
	Notifier Notifier
}

// Result describes what one check observed and did.
type Result struct {
	NewPicks int
	Lines    []format.Line
	Message  string
	Sent     bool
}

type App struct {
	source LeagueSource
	cache  *cache.Cache
	clock  clockwork.Clock
}

func NewApp(source LeagueSource, c *cache.Cache, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if c == nil {
		c = cache.New(cache.DefaultTTL, clock)
	}
	return &App{
		source: source,
		cache:  c,
		clock:  clock,
	}
}

// Watch runs CheckDraft while holding the league's lock.
func (a *App) Watch(ctx context.Context, l League) (*Result, error) {
	var result *Result
	err := lock.With(ctx, l.Guard, func(ctx context.Context) error {
		var err error
		result, err = a.CheckDraft(ctx, l)
		return err
	})
	return result, err
}

// CheckDraft announces the picks made since the previous check. The merged
// state is persisted before anything is sent, so a failed notification is
// reported but never repeated on the next run.
func (a *App) CheckDraft(ctx context.Context, l League) (*Result, error) {
	logger := log.Ctx(ctx)

	if err := fsutil.EnsureParentDirs(l.PlayerCache, l.LeagueCache, l.FranchiseCache); err != nil {
		return nil, err
	}

	franchises, err := cache.GetOrFetch(ctx, a.cache, l.FranchiseCache, a.fetchFranchises(l))
	if err != nil {
		return nil, fmt.Errorf("failed to get franchises: %w", err)
	}
	teamsPerRound := len(franchises)

	players, err := cache.GetOrFetch(ctx, a.cache, l.PlayerCache, a.fetchPlayers)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	loaded, err := l.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if loaded.Found {
		logger.Debug().
			Int("picks", loaded.State.Len()).
			Str("state", l.Store.Location()).
			Msg("loaded previous draft picks")
	} else {
		logger.Info().Str("state", l.Store.Location()).Msg("no previous draft state, starting empty")
	}

	current, err := a.source.GetDraftResults(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft results: %w", err)
	}

	merged, newPicks := draft.ComputeDelta(current, loaded.State)
	if newPicks.Len() == 0 {
		logger.Info().Msg("No new picks made")
		return &Result{}, nil
	}

	lines, err := format.Picks(newPicks, players, franchises, teamsPerRound)
	if err != nil {
		return nil, err
	}
	message, _ := format.Message(lines)

	if err := l.Store.Save(ctx, merged); err != nil {
		return nil, err
	}
	logger.Info().Int("new_picks", newPicks.Len()).Int("total_picks", merged.Len()).Msg("saved draft state")

	result := &Result{
		NewPicks: newPicks.Len(),
		Lines:    lines,
		Message:  message,
	}

	n := notify.Notification{
		LeagueID:   l.ID,
		LeagueName: l.Name,
		Text:       message,
		Picks:      a.payloads(l.ID, lines),
	}
	if err := l.Notifier.Send(ctx, n); err != nil {
		return result, fmt.Errorf("failed to send notification: %w", err)
	}
	result.Sent = true

	return result, nil
}

func (a *App) fetchFranchises(l League) cache.FetchFunc[map[string]models.Franchise] {
	return func(ctx context.Context) (map[string]models.Franchise, error) {
		league, err := a.source.GetLeague(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		if err := fsutil.WriteFileAtomic(l.LeagueCache, league.Raw); err != nil {
			return nil, fmt.Errorf("failed to write league data: %w", err)
		}
		return models.IndexByID(league.Franchises), nil
	}
}

func (a *App) fetchPlayers(ctx context.Context) (map[string]models.Player, error) {
	players, err := a.source.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return models.IndexByID(players), nil
}

func (a *App) payloads(leagueID string, lines []format.Line) []events.PickMadePayload {
	observedAt := a.clock.Now().UTC()
	payloads := make([]events.PickMadePayload, 0, len(lines))
	for _, line := range lines {
		payloads = append(payloads, events.PickMadePayload{
			PickKey:       line.Key.String(),
			LeagueID:      leagueID,
			FranchiseID:   line.Franchise.ID,
			FranchiseName: line.Franchise.Name,
			PlayerID:      line.Pick.PlayerID,
			PlayerName:    line.Player.Name,
			Position:      line.Player.Position,
			Round:         line.Pick.Round,
			Pick:          line.Pick.Pick,
			OverallPick:   line.OverallPick,
			Skipped:       line.Pick.Skipped(),
			MadeAt:        line.Pick.Timestamp,
			ObservedAt:    observedAt,
		})
	}
	return payloads
}
