package models

import "time"

const (
	XPPerFocusSession    = 25
	InitialXPToNextLevel = 100
	XPToNextLevelStep    = 50
	DefaultWeeklyGoal    = 8
)

// Stats accumulates focus progress. Only focus completions count.
type Stats struct {
	TotalSessions     int
	TotalFocusMinutes int
	TodaySessions     int
	WeeklyGoal        int
	Level             int
	Experience        int
	ExperienceToNext  int

	lastSessionDay time.Time
}

func NewStats() Stats {
	return Stats{
		WeeklyGoal:       DefaultWeeklyGoal,
		Level:            1,
		ExperienceToNext: InitialXPToNextLevel,
	}
}

// RecordFocus returns true when the session caused a level up.
func (s *Stats) RecordFocus(d time.Duration, now time.Time) bool {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !day.Equal(s.lastSessionDay) {
		s.TodaySessions = 0
		s.lastSessionDay = day
	}

	s.TotalSessions++
	s.TodaySessions++
	s.TotalFocusMinutes += int(d / time.Minute)
	s.Experience += XPPerFocusSession

	if s.Experience < s.ExperienceToNext {
		return false
	}
	s.Experience -= s.ExperienceToNext
	s.Level++
	s.ExperienceToNext += XPToNextLevelStep
	return true
}

// LevelProgress is the fraction of XP earned toward the next level.
func (s Stats) LevelProgress() float64 {
	if s.ExperienceToNext <= 0 {
		return 0
	}
	return float64(s.Experience) / float64(s.ExperienceToNext)
}

func (s Stats) GoalProgress() float64 {
	if s.WeeklyGoal <= 0 {
		return 0
	}
	return min(1, float64(s.TodaySessions)/float64(s.WeeklyGoal))
}
