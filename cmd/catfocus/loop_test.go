package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benjamonnguyen/catfocus"
	"github.com/benjamonnguyen/catfocus/cmd/catfocus/models"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mockNotifier struct {
	mu          sync.Mutex
	completions []catfocus.SessionCompleted
	rewards     []catfocus.OwnedCard
}

func (m *mockNotifier) SessionCompleted(_ context.Context, ev catfocus.SessionCompleted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = append(m.completions, ev)
	return nil
}

func (m *mockNotifier) RewardDrawn(_ context.Context, card catfocus.OwnedCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rewards = append(m.rewards, card)
	return nil
}

type testLoop struct {
	*focusLoop
	clock      *fakeClock
	events     *mockEventRepo
	cards      *mockCardRepo
	collection CollectionProvider
	notifier   *mockNotifier
}

func newTestLoop(t *testing.T, settings models.SessionSettings, ledger *models.Ledger, pDraw float64) *testLoop {
	t.Helper()
	clock := &fakeClock{now: testNow}
	cards := &mockCardRepo{}
	collection := NewCollectionProvider(cards, &mockTransactor{}, *log.Default())
	events := &mockEventRepo{}
	notifier := &mockNotifier{}

	l := NewFocusLoop(
		context.Background(),
		settings,
		ledger,
		newTestRewardEngine(t, pDraw, collection),
		NewEventLog(events, &mockTransactor{}, *log.Default()),
		notifier,
		clock,
		*log.Default(),
	).(*focusLoop)
	t.Cleanup(func() { _ = l.Shutdown() })

	return &testLoop{
		focusLoop:  l,
		clock:      clock,
		events:     events,
		cards:      cards,
		collection: collection,
		notifier:   notifier,
	}
}

var shortSettings = models.SessionSettings{Focus: 3 * time.Second, Break: 2 * time.Second}

func TestFocusLoop_FocusCompletion(t *testing.T) {
	tl := newTestLoop(t, shortSettings, models.NewLedger(0, 0), 1)
	var completions []completion
	tl.OnSessionCompleted(func(_ context.Context, c completion) {
		completions = append(completions, c)
	})
	tl.state.task = "Write report"
	tl.state.session.Start()

	for range 3 {
		tl.clock.Advance(time.Second)
		tl.tickSession(tl.ctx)
	}
	// paused at the new type, further ticks are no-ops
	tl.tickSession(tl.ctx)

	require.Len(t, completions, 1)
	c := completions[0]
	assert.Equal(t, catfocus.FocusSession, c.Event.SessionType)
	assert.Equal(t, 3*time.Second, c.Event.Duration)
	assert.Equal(t, testNow.Add(3*time.Second), c.Event.CompletedAt)
	require.NotNil(t, c.Reward)
	assert.Equal(t, c.Event.CompletedAt, c.Reward.ObtainedAt)

	s := tl.state
	assert.Equal(t, catfocus.BreakSession, s.session.Type())
	assert.Equal(t, 2, s.session.TimeLeftSeconds())
	assert.False(t, s.session.Running())
	assert.Equal(t, models.FocusTreatReward, s.ledger.Treats())
	assert.Equal(t, models.FocusToyReward, s.ledger.Toys())
	assert.Equal(t, 1, s.stats.TotalSessions)
	assert.Equal(t, models.XPPerFocusSession, s.stats.Experience)
	_, pending := s.rewards.Pending()
	assert.True(t, pending)
	assert.Equal(t, 0, tl.collection.Count(), "rewards wait for collect")

	require.Len(t, tl.events.events, 1)
	assert.Equal(t, "Write report", tl.events.events[0].EventName)
	assert.Equal(t, catfocus.FocusSession, tl.events.events[0].Type)

	require.NoError(t, tl.Shutdown())
	assert.Len(t, tl.notifier.completions, 1)
	assert.Len(t, tl.notifier.rewards, 1)
}

func TestFocusLoop_BreakCompletion(t *testing.T) {
	tl := newTestLoop(t, shortSettings, models.NewLedger(0, 0), 1)
	var completions []completion
	tl.OnSessionCompleted(func(_ context.Context, c completion) {
		completions = append(completions, c)
	})
	tl.state.task = "ignored for breaks"
	tl.state.session.SwitchType()
	tl.state.session.Start()

	tl.tickSession(tl.ctx)
	tl.tickSession(tl.ctx)

	require.Len(t, completions, 1)
	assert.Equal(t, catfocus.BreakSession, completions[0].Event.SessionType)
	assert.Nil(t, completions[0].Reward)
	assert.Equal(t, 0, tl.state.ledger.Treats())
	assert.Equal(t, 0, tl.state.stats.TotalSessions)
	assert.Equal(t, catfocus.FocusSession, tl.state.session.Type())
	require.Len(t, tl.events.events, 1)
	assert.Equal(t, "Break Session", tl.events.events[0].EventName)
}

func TestFocusLoop_SwitchNeverCompletes(t *testing.T) {
	tl := newTestLoop(t, shortSettings, models.NewLedger(0, 0), 1)
	var calls int
	tl.OnSessionCompleted(func(context.Context, completion) { calls++ })

	tl.state.session.Start()
	tl.tickSession(tl.ctx)
	tl.state.session.SwitchType()
	tl.tickSession(tl.ctx)

	assert.Zero(t, calls)
	assert.Empty(t, tl.events.events)
}

func TestFocusLoop_DecayRecency(t *testing.T) {
	tl := newTestLoop(t, shortSettings, models.NewLedger(1, 0), 0)

	tl.clock.Advance(10 * time.Second)
	tl.tickDecay()
	assert.Equal(t, models.InitialStat-models.NormalDecay, tl.state.companion.Happiness())

	tl.clock.Advance(30 * time.Second)
	tl.tickDecay()
	assert.Equal(t, models.InitialStat-models.NormalDecay-models.NeglectDecay, tl.state.companion.Energy())

	// feeding resets recency before the next decay
	require.True(t, tl.state.companion.Feed(tl.clock.Now(), tl.state.ledger))
	tl.clock.Advance(5 * time.Second)
	before := tl.state.companion.Happiness()
	tl.tickDecay()
	assert.Equal(t, before-models.NormalDecay, tl.state.companion.Happiness())
}

func TestFocusLoop_RunsTimers(t *testing.T) {
	defer func(rate time.Duration) { sessionTickRate = rate }(sessionTickRate)
	sessionTickRate = time.Millisecond

	tl := newTestLoop(t, models.SessionSettings{Focus: time.Second, Break: time.Second}, models.NewLedger(0, 0), 0)
	done := make(chan completion, 1)
	tl.OnSessionCompleted(func(_ context.Context, c completion) {
		done <- c
	})
	tl.Start()

	ctx := context.Background()
	require.NoError(t, tl.Do(ctx, func(_ context.Context, s *focusState) {
		s.session.Start()
	}))

	select {
	case c := <-done:
		assert.Equal(t, catfocus.FocusSession, c.Event.SessionType)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not complete")
	}

	var running bool
	var sessionType catfocus.SessionType
	require.NoError(t, tl.Do(ctx, func(_ context.Context, s *focusState) {
		running = s.session.Running()
		sessionType = s.session.Type()
	}))
	assert.False(t, running)
	assert.Equal(t, catfocus.BreakSession, sessionType)

	require.NoError(t, tl.Shutdown())
	assert.Nil(t, tl.sessionTicker)
	assert.ErrorIs(t, tl.Do(ctx, func(context.Context, *focusState) {}), errLoopStopped)
}

func TestFocusLoop_DoRespectsCallerContext(t *testing.T) {
	tl := newTestLoop(t, shortSettings, models.NewLedger(0, 0), 0)

	// loop not started, so nothing receives the command
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := tl.Do(ctx, func(context.Context, *focusState) {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
