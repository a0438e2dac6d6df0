package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benjamonnguyen/catfocus"
	"github.com/benjamonnguyen/catfocus/cmd/catfocus/models"
	"github.com/charmbracelet/log"
)

var (
	sessionTickRate = time.Second
	decayTickRate   = models.DecayInterval
	notifyTimeout   = 10 * time.Second
)

var errLoopStopped = errors.New("focus loop stopped")

// focusState is owned by the loop goroutine. Only functions passed to
// FocusLoop.Do may read or mutate it.
type focusState struct {
	session   models.Session
	companion models.Companion
	ledger    *models.Ledger
	stats     models.Stats
	rewards   RewardEngine
	task      string
	clock     catfocus.Clock
}

func (s *focusState) now() time.Time {
	return s.clock.Now()
}

type completion struct {
	Event   catfocus.SessionCompleted
	Reward  *catfocus.OwnedCard
	LevelUp bool
}

// FocusLoop serializes timer ticks, companion decay and user commands on a
// single goroutine.
type FocusLoop interface {
	Start()
	Do(context.Context, func(context.Context, *focusState)) error

	// OnSessionCompleted handler runs on the loop goroutine
	OnSessionCompleted(func(context.Context, completion))
	Shutdown() error
}

type command struct {
	ctx  context.Context
	fn   func(context.Context, *focusState)
	done chan struct{}
}

type focusLoop struct {
	state    *focusState
	events   EventLog
	notifier Notifier
	l        log.Logger

	commands      chan command
	sessionTicker *time.Ticker
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc

	onSessionCompleted func(context.Context, completion)
}

func NewFocusLoop(
	ctx context.Context,
	settings models.SessionSettings,
	ledger *models.Ledger,
	rewards RewardEngine,
	events EventLog,
	notifier Notifier,
	clock catfocus.Clock,
	l log.Logger,
) FocusLoop {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	loopCtx, cancel := context.WithCancel(ctx)
	return &focusLoop{
		state: &focusState{
			session:   models.NewSession(settings),
			companion: models.NewCompanion(clock.Now()),
			ledger:    ledger,
			stats:     models.NewStats(),
			rewards:   rewards,
			clock:     clock,
		},
		events:   events,
		notifier: notifier,
		l:        l,
		commands: make(chan command),
		ctx:      loopCtx,
		cancel:   cancel,
	}
}

func (fl *focusLoop) OnSessionCompleted(handler func(context.Context, completion)) {
	fl.onSessionCompleted = handler
}

func (fl *focusLoop) Start() {
	fl.wg.Go(fl.run)
}

func (fl *focusLoop) run() {
	decay := time.NewTicker(decayTickRate)
	defer decay.Stop()
	defer fl.stopSessionTicker()

	for {
		fl.syncSessionTicker()
		select {
		case <-fl.ctx.Done():
			fl.l.Debug("ending focus loop")
			return
		case cmd := <-fl.commands:
			cmd.fn(cmd.ctx, fl.state)
			close(cmd.done)
		case <-fl.sessionTickC():
			fl.tickSession(fl.ctx)
		case <-decay.C:
			fl.tickDecay()
		}
	}
}

func (fl *focusLoop) Do(ctx context.Context, fn func(context.Context, *focusState)) error {
	cmd := command{
		ctx:  ctx,
		fn:   fn,
		done: make(chan struct{}),
	}
	select {
	case fl.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-fl.ctx.Done():
		return errLoopStopped
	}

	// accepted commands always run to completion
	select {
	case <-cmd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (fl *focusLoop) Shutdown() error {
	fl.cancel()
	fl.wg.Wait()
	return nil
}

// The session ticker only exists while the session is running.
func (fl *focusLoop) syncSessionTicker() {
	running := fl.state.session.Running()
	switch {
	case running && fl.sessionTicker == nil:
		fl.sessionTicker = time.NewTicker(sessionTickRate)
	case !running && fl.sessionTicker != nil:
		fl.stopSessionTicker()
	}
}

func (fl *focusLoop) stopSessionTicker() {
	if fl.sessionTicker != nil {
		fl.sessionTicker.Stop()
		fl.sessionTicker = nil
	}
}

func (fl *focusLoop) sessionTickC() <-chan time.Time {
	if fl.sessionTicker == nil {
		return nil
	}
	return fl.sessionTicker.C
}

func (fl *focusLoop) tickSession(ctx context.Context) {
	ev, ok := fl.state.session.Tick(fl.state.now())
	if !ok {
		return
	}
	fl.handleCompletion(ctx, ev)
}

func (fl *focusLoop) tickDecay() {
	now := fl.state.now()
	rate := fl.state.companion.Decay(now)
	fl.l.Debug("companion decayed",
		"rate", rate,
		"happiness", fl.state.companion.Happiness(),
		"energy", fl.state.companion.Energy(),
		"mood", fl.state.companion.Mood(),
	)
}

func (fl *focusLoop) handleCompletion(ctx context.Context, ev catfocus.SessionCompleted) {
	c := completion{Event: ev}
	var task string
	if ev.SessionType == catfocus.FocusSession {
		task = fl.state.task
		fl.state.ledger.Earn(models.FocusTreatReward, models.FocusToyReward)
		if c.LevelUp = fl.state.stats.RecordFocus(ev.Duration, ev.CompletedAt); c.LevelUp {
			fl.l.Info("leveled up", "level", fl.state.stats.Level)
		}
		if card, ok := fl.state.rewards.Draw(ev); ok {
			c.Reward = &card
		}
	}
	fl.l.Info("session completed", "type", ev.SessionType, "duration", ev.Duration)

	if _, err := fl.events.Add(ctx, completionEvent(ev, task)); err != nil {
		fl.l.Error("failed to log session completion", "type", ev.SessionType, "err", err)
	}
	fl.notify(ev, c.Reward)
	if fl.onSessionCompleted != nil {
		fl.onSessionCompleted(ctx, c)
	}
}

// notify runs off the loop so a slow notifier never delays a tick.
func (fl *focusLoop) notify(ev catfocus.SessionCompleted, reward *catfocus.OwnedCard) {
	fl.wg.Go(func() {
		ctx, cancel := context.WithTimeout(fl.ctx, notifyTimeout)
		defer cancel()
		if err := fl.notifier.SessionCompleted(ctx, ev); err != nil {
			fl.l.Error("failed to notify session completion", "type", ev.SessionType, "err", err)
		}
		if reward == nil {
			return
		}
		if err := fl.notifier.RewardDrawn(ctx, *reward); err != nil {
			fl.l.Error("failed to notify reward", "cardID", reward.ID, "err", err)
		}
	})
}
