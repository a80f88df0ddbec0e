package watcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/draftwatch/go/clients/groupme_client"
	"github.com/mcdev12/draftwatch/go/clients/mfl_client"
	"github.com/mcdev12/draftwatch/go/internal/cache"
	"github.com/mcdev12/draftwatch/go/internal/config"
	"github.com/mcdev12/draftwatch/go/internal/draft"
	"github.com/mcdev12/draftwatch/go/internal/format"
	"github.com/mcdev12/draftwatch/go/internal/lock"
	"github.com/mcdev12/draftwatch/go/internal/models"
	"github.com/mcdev12/draftwatch/go/internal/notify"
)

const testLeagueID = "12345"

var observedAt = time.Date(2024, 8, 30, 19, 0, 0, 0, time.UTC)

type fakeSource struct {
	mu       sync.Mutex
	players  []models.Player
	league   *mfl_client.League
	picks    []models.DraftPick
	draftErr error
	calls    map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		players: []models.Player{
			{ID: "900", Name: "Alice", Position: "WR"},
			{ID: "901", Name: "Bob", Position: "RB"},
		},
		league: &mfl_client.League{
			ID:   testLeagueID,
			Name: "Test League",
			Franchises: []models.Franchise{
				{ID: "1", Name: "Foxes"},
				{ID: "2", Name: "Bears"},
			},
			Raw: []byte(`{"league":{"id":"12345"}}`),
		},
		picks: []models.DraftPick{
			{FranchiseID: "1", Round: "1", Pick: "1", PlayerID: "900", Timestamp: "t1"},
			{FranchiseID: "2", Round: "1", Pick: "2", PlayerID: models.SkipPlayerID, Timestamp: "t2"},
		},
		calls: make(map[string]int),
	}
}

func (s *fakeSource) GetPlayers(ctx context.Context) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["players"]++
	return s.players, nil
}

func (s *fakeSource) GetLeague(ctx context.Context, leagueID string) (*mfl_client.League, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["league"]++
	return s.league, nil
}

func (s *fakeSource) GetDraftResults(ctx context.Context, leagueID string) ([]models.DraftPick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["draft"]++
	if s.draftErr != nil {
		return nil, s.draftErr
	}
	return append([]models.DraftPick(nil), s.picks...), nil
}

type groupMeServer struct {
	mu       sync.Mutex
	status   int
	messages []string
	botIDs   []string
}

func (g *groupMeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != 0 {
		w.WriteHeader(g.status)
		return
	}
	g.messages = append(g.messages, r.FormValue(groupme_client.TextField))
	g.botIDs = append(g.botIDs, r.FormValue(groupme_client.BotIDField))
	w.WriteHeader(http.StatusAccepted)
}

func (g *groupMeServer) setStatus(status int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = status
}

func (g *groupMeServer) sent() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.messages...)
}

type eventSink struct {
	got []notify.Notification
}

func (s *eventSink) Name() string { return "events" }

func (s *eventSink) Send(ctx context.Context, n notify.Notification) error {
	s.got = append(s.got, n)
	return nil
}

type fixture struct {
	source *fakeSource
	server *groupMeServer
	cfg    *config.Config
	runner *Runner
	dir    string
}

func newFixture(t *testing.T, deps Deps) *fixture {
	t.Helper()
	dir := t.TempDir()
	source := newFakeSource()
	server := &groupMeServer{}
	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	retries := 0
	cfg := &config.Config{
		LockTimeout: 100 * time.Millisecond,
		CacheTTL:    time.Hour,
		Notify:      config.NotifyConfig{MaxRetries: &retries},
		Leagues: []config.LeagueConfig{
			{
				Name:           "Test League",
				LeagueID:       testLeagueID,
				BotID:          "bot-1",
				PlayerCache:    filepath.Join(dir, "cache", "players.json"),
				LeagueCache:    filepath.Join(dir, "cache", "league.json"),
				FranchiseCache: filepath.Join(dir, "cache", "franchises.json"),
				DraftCache:     filepath.Join(dir, "state", "draft.json"),
				StateBackend:   config.StateBackendFile,
			},
		},
	}

	clock := clockwork.NewFakeClockAt(observedAt)
	app := NewApp(source, cache.New(cfg.CacheTTL, clock), clock)
	if deps.GroupMe == nil {
		deps.GroupMe = groupme_client.NewGroupMeClient(srv.URL)
	}

	return &fixture{
		source: source,
		server: server,
		cfg:    cfg,
		runner: NewRunner(app, cfg, deps),
		dir:    dir,
	}
}

func (f *fixture) loadFileState(t *testing.T) draft.LoadResult {
	t.Helper()
	res, err := draft.NewFileStore(f.cfg.Leagues[0].DraftCache).Load(context.Background())
	require.NoError(t, err)
	return res
}

func TestRunAnnouncesNewPicks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Deps{})

	require.NoError(t, f.runner.Run(ctx))
	require.Equal(t, []string{
		"1.1: Alice, WR, Foxes - 1 overall\n1.2: Skipped, N/A, Bears - 2 overall",
	}, f.server.sent())
	require.Equal(t, []string{"bot-1"}, f.server.botIDs)

	state := f.loadFileState(t)
	require.True(t, state.Found)
	require.Equal(t, 2, state.State.Len())

	raw, err := os.ReadFile(f.cfg.Leagues[0].LeagueCache)
	require.NoError(t, err)
	require.JSONEq(t, `{"league":{"id":"12345"}}`, string(raw))
	require.FileExists(t, f.cfg.Leagues[0].PlayerCache)
	require.FileExists(t, f.cfg.Leagues[0].FranchiseCache)

	t.Run("second run with no changes sends nothing", func(t *testing.T) {
		require.NoError(t, f.runner.Run(ctx))
		require.Len(t, f.server.sent(), 1)
		require.Equal(t, 2, f.loadFileState(t).State.Len())
	})

	t.Run("only the new pick is announced", func(t *testing.T) {
		f.source.picks = append(f.source.picks,
			models.DraftPick{FranchiseID: "1", Round: "2", Pick: "1", PlayerID: "901", Timestamp: "t3"})

		require.NoError(t, f.runner.Run(ctx))
		sent := f.server.sent()
		require.Len(t, sent, 2)
		require.Equal(t, "2.1: Bob, RB, Foxes - 3 overall", sent[1])
		require.Equal(t, 3, f.loadFileState(t).State.Len())
	})

	t.Run("cached league data is reused while fresh", func(t *testing.T) {
		require.Equal(t, 1, f.source.calls["players"])
		require.Equal(t, 1, f.source.calls["league"])
		require.Equal(t, 3, f.source.calls["draft"])
	})
}

func TestRunPersistsBeforeNotifying(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Deps{})
	f.server.setStatus(http.StatusInternalServerError)

	err := f.runner.Run(ctx)
	require.Error(t, err)
	require.Empty(t, f.server.sent())

	state := f.loadFileState(t)
	require.True(t, state.Found)
	require.Equal(t, 2, state.State.Len())

	f.server.setStatus(0)
	require.NoError(t, f.runner.Run(ctx))
	require.Empty(t, f.server.sent())
}

func TestRunUnknownFranchisePersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Deps{})
	f.source.picks = append(f.source.picks,
		models.DraftPick{FranchiseID: "9", Round: "2", Pick: "1", PlayerID: "901", Timestamp: "t3"})

	err := f.runner.Run(ctx)
	require.ErrorIs(t, err, format.ErrUnknownFranchise)
	require.Empty(t, f.server.sent())
	require.NoFileExists(t, f.cfg.Leagues[0].DraftCache)
}

func TestRunDraftFetchFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Deps{})
	f.source.draftErr = errors.New("upstream unavailable")

	err := f.runner.Run(ctx)
	require.ErrorContains(t, err, "upstream unavailable")
	require.Empty(t, f.server.sent())
	require.NoFileExists(t, f.cfg.Leagues[0].DraftCache)
}

func TestRunCorruptStateIsFatal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Deps{})
	path := f.cfg.Leagues[0].DraftCache
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	err := f.runner.Run(ctx)
	require.ErrorIs(t, err, draft.ErrCorruptState)
	require.Empty(t, f.server.sent())
}

func TestRunSkipsInvalidLeague(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Deps{})
	valid := f.cfg.Leagues[0]
	f.cfg.Leagues = []config.LeagueConfig{
		{Name: "Broken", StateBackend: config.StateBackendFile},
		valid,
	}

	require.NoError(t, f.runner.Run(ctx))
	require.Len(t, f.server.sent(), 1)
}

func TestRunWaitsForLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Deps{})

	guard := lock.NewFileGuard(lock.PathFor(f.cfg.Leagues[0].DraftCache), 0)
	release, err := guard.Acquire(ctx)
	require.NoError(t, err)

	err = f.runner.Run(ctx)
	require.ErrorIs(t, err, lock.ErrLocked)
	require.Empty(t, f.server.sent())

	require.NoError(t, release())
	require.NoError(t, f.runner.Run(ctx))
	require.Len(t, f.server.sent(), 1)
}

func TestRunRedisBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	events := &eventSink{}
	f := newFixture(t, Deps{Redis: client, Events: events})
	f.cfg.MFL.Year = "2025"
	f.cfg.Redis.URL = "redis://" + mr.Addr()
	f.cfg.NATS.URL = "nats://127.0.0.1:4222"
	f.cfg.Leagues[0].StateBackend = config.StateBackendRedis
	f.cfg.Leagues[0].DraftCache = ""
	f.cfg.Leagues[0].PublishEvents = true

	require.NoError(t, f.runner.Run(ctx))
	require.True(t, mr.Exists(draft.RedisStateKey("2025", testLeagueID)))
	require.False(t, mr.Exists(lock.RedisLockKey("2025", testLeagueID)))
	require.Len(t, f.server.sent(), 1)

	require.Len(t, events.got, 1)
	picks := events.got[0].Picks
	require.Len(t, picks, 2)
	require.Equal(t, "Alice", picks[0].PlayerName)
	require.Equal(t, 1, picks[0].OverallPick)
	require.True(t, picks[1].Skipped)
	require.Equal(t, "Bears", picks[1].FranchiseName)
	require.True(t, observedAt.Equal(picks[0].ObservedAt))

	require.NoError(t, f.runner.Run(ctx))
	require.Len(t, events.got, 1)
}

func TestLeagueRequiresClients(t *testing.T) {
	f := newFixture(t, Deps{})
	lc := f.cfg.Leagues[0]

	t.Run("redis backend without client", func(t *testing.T) {
		lc := lc
		lc.StateBackend = config.StateBackendRedis
		_, err := f.runner.League(lc)
		require.Error(t, err)
	})

	t.Run("events without sink", func(t *testing.T) {
		lc := lc
		lc.PublishEvents = true
		_, err := f.runner.League(lc)
		require.Error(t, err)
	})

	t.Run("file backend", func(t *testing.T) {
		l, err := f.runner.League(lc)
		require.NoError(t, err)
		require.Equal(t, lc.DraftCache, l.Store.Location())
		require.Equal(t, lock.PathFor(lc.DraftCache), l.Guard.Scope())
	})
}
