package models

import (
	"fmt"
	"time"
)

type Mood uint8

const (
	MoodHappy Mood = iota
	MoodSleeping
	MoodHungry
	MoodPlayful
)

func (m Mood) String() string {
	switch m {
	case MoodHappy:
		return "happy"
	case MoodSleeping:
		return "sleeping"
	case MoodHungry:
		return "hungry"
	case MoodPlayful:
		return "playful"
	default:
		panic(fmt.Sprintf("no matching enum for Mood: %d", uint8(m)))
	}
}

func (m Mood) Message() string {
	switch m {
	case MoodSleeping:
		return "Zzz... Your cat is taking a nap"
	case MoodHungry:
		return "Your cat is hungry for treats!"
	case MoodPlayful:
		return "Your cat wants to play!"
	default:
		return "Your cat is content and happy"
	}
}

const (
	MinStat     = 0
	MaxStat     = 100
	InitialStat = 50

	DecayInterval    = 5 * time.Second
	NeglectThreshold = 30 * time.Second
	NormalDecay      = 1
	NeglectDecay     = 2
	PlayDuration     = 2 * time.Second

	FeedHappiness = 20
	FeedEnergy    = 10
	PlayHappiness = 30
	PlayEnergy    = -10

	sleepyEnergy    = 30
	hungryHappiness = 30
	playfulHappy    = 80
	playfulEnergy   = 70
)

// MoodFor derives mood from stats. Earlier rules win.
func MoodFor(happiness, energy int) Mood {
	switch {
	case energy < sleepyEnergy:
		return MoodSleeping
	case happiness < hungryHappiness:
		return MoodHungry
	case happiness > playfulHappy && energy > playfulEnergy:
		return MoodPlayful
	default:
		return MoodHappy
	}
}

// Companion is the virtual cat. Mood is never stored.
type Companion struct {
	happiness         int
	energy            int
	lastInteractionAt time.Time
	playingUntil      time.Time
}

func NewCompanion(now time.Time) Companion {
	return Companion{
		happiness:         InitialStat,
		energy:            InitialStat,
		lastInteractionAt: now,
	}
}

// RestoreCompanion builds a companion with explicit stats, clamped to range.
func RestoreCompanion(happiness, energy int, lastInteractionAt time.Time) Companion {
	return Companion{
		happiness:         clampStat(happiness),
		energy:            clampStat(energy),
		lastInteractionAt: lastInteractionAt,
	}
}

func clampStat(v int) int {
	return min(MaxStat, max(MinStat, v))
}

func (c Companion) Happiness() int {
	return c.happiness
}

func (c Companion) Energy() int {
	return c.energy
}

func (c Companion) Mood() Mood {
	return MoodFor(c.happiness, c.energy)
}

func (c Companion) LastInteractionAt() time.Time {
	return c.lastInteractionAt
}

func (c Companion) IsPlaying(now time.Time) bool {
	return now.Before(c.playingUntil)
}

// DecayRate is re-evaluated on every decay tick.
func (c Companion) DecayRate(now time.Time) int {
	if now.Sub(c.lastInteractionAt) > NeglectThreshold {
		return NeglectDecay
	}
	return NormalDecay
}

// Decay applies one decay tick and returns the rate used.
func (c *Companion) Decay(now time.Time) int {
	rate := c.DecayRate(now)
	c.happiness = clampStat(c.happiness - rate)
	c.energy = clampStat(c.energy - rate)
	return rate
}

// Feed spends one treat. It is refused when no treats are available.
func (c *Companion) Feed(now time.Time, l ResourceLedger) bool {
	if l.Treats() <= 0 || !l.SpendTreats(1) {
		return false
	}
	c.happiness = clampStat(c.happiness + FeedHappiness)
	c.energy = clampStat(c.energy + FeedEnergy)
	c.lastInteractionAt = now
	return true
}

// Play spends one toy. It is refused when no toys are available or a play
// is already in progress.
func (c *Companion) Play(now time.Time, l ResourceLedger) bool {
	if c.IsPlaying(now) || l.Toys() <= 0 || !l.SpendToys(1) {
		return false
	}
	c.happiness = clampStat(c.happiness + PlayHappiness)
	c.energy = clampStat(c.energy + PlayEnergy)
	c.lastInteractionAt = now
	c.playingUntil = now.Add(PlayDuration)
	return true
}
