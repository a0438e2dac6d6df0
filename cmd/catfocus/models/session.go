// Package models helps control struct access and mutation
package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/benjamonnguyen/catfocus"
)

const (
	timerBarFilledChar = "⣶"
	timerBarEmptyChar  = "⡀"
	timerBarLength     = 20
)

type SessionSettings struct {
	Focus, Break time.Duration
}

func DefaultSessionSettings() SessionSettings {
	return SessionSettings{
		Focus: catfocus.DefaultFocus,
		Break: catfocus.DefaultBreak,
	}
}

// Session is the focus/break countdown. Time is counted in whole seconds.
type Session struct {
	settings      SessionSettings
	sessionType   catfocus.SessionType
	timeLeft      int
	totalDuration int
	running       bool
}

func NewSession(settings SessionSettings) Session {
	if seconds(settings.Focus) <= 0 || seconds(settings.Break) <= 0 {
		panic("session durations must be at least one second")
	}
	s := Session{
		settings:    settings,
		sessionType: catfocus.FocusSession,
	}
	s.Reset()
	return s
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

func (s Session) Type() catfocus.SessionType {
	return s.sessionType
}

func (s Session) Running() bool {
	return s.running
}

func (s Session) TimeLeftSeconds() int {
	return s.timeLeft
}

func (s Session) TotalDurationSeconds() int {
	return s.totalDuration
}

func (s Session) TimeLeft() time.Duration {
	return time.Duration(s.timeLeft) * time.Second
}

func (s Session) CurrentDuration() time.Duration {
	switch s.sessionType {
	case catfocus.FocusSession:
		return s.settings.Focus
	case catfocus.BreakSession:
		return s.settings.Break
	default:
		panic("unexpected session type")
	}
}

func (s *Session) Start() {
	s.running = true
}

func (s *Session) Pause() {
	s.running = false
}

func (s *Session) Toggle() {
	s.running = !s.running
}

func (s *Session) Reset() {
	s.totalDuration = seconds(s.CurrentDuration())
	s.timeLeft = s.totalDuration
	s.running = false
}

// SwitchType flips the session type without emitting a completion.
func (s *Session) SwitchType() {
	s.sessionType = s.sessionType.Other()
	s.Reset()
}

// Tick advances the countdown by one second. The returned event is only
// valid when ok is true, which happens exactly once per zero-crossing.
// The session is left paused on the other type.
func (s *Session) Tick(now time.Time) (ev catfocus.SessionCompleted, ok bool) {
	if !s.running || s.timeLeft <= 0 {
		return catfocus.SessionCompleted{}, false
	}
	s.timeLeft--
	if s.timeLeft > 0 {
		return catfocus.SessionCompleted{}, false
	}

	ev = catfocus.SessionCompleted{
		SessionType: s.sessionType,
		Duration:    time.Duration(s.totalDuration) * time.Second,
		CompletedAt: now,
	}
	s.sessionType = s.sessionType.Other()
	s.Reset()
	return ev, true
}

// Progress is the elapsed fraction of the current session in [0,1].
func (s Session) Progress() float64 {
	if s.totalDuration <= 0 {
		return 0
	}
	p := float64(s.totalDuration-s.timeLeft) / float64(s.totalDuration)
	return math.Min(1, math.Max(0, p))
}

// TimerBar renders remaining time as filled cells.
func (s Session) TimerBar() string {
	filled := int(math.Round((1 - s.Progress()) * timerBarLength))
	return strings.Repeat(timerBarFilledChar, filled) + strings.Repeat(timerBarEmptyChar, timerBarLength-filled)
}

func (s Session) Clock() string {
	return FormatClock(s.timeLeft)
}

// FormatClock formats seconds as MM:SS.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
