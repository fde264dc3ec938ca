package gamify

import (
	"time"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// WellbeingXPCap is the hard ceiling for vibes-scored logs, no matter how
// high the vibes value goes.
const WellbeingXPCap = 60

// customDurationCap bounds the duration-based fallback for custom logs that
// carry neither calories nor vibes (legacy data).
const customDurationCap = 60

// qualifies reports whether a log can count toward streaks and scoring at
// all. Commitments are pledges, not completed days, and unknown types are
// scored as zero rather than rejected.
func qualifies(log models.WorkoutLog) bool {
	switch log.Type {
	case models.WorkoutA, models.WorkoutB, models.WorkoutCustom, models.WorkoutCustomTemplate:
		return true
	}
	return false
}

// LogXP computes the base XP award for a single log. Never negative.
//
// Plan days score flat constants (B is the hard day and never scores below
// A). Custom logs score vibes capped at 60 in wellbeing mode, calories/10 in
// fitness mode, and a short session (< 30 min) can never out-score its own
// duration. Commitments and malformed logs score zero.
func (e *Engine) LogXP(log models.WorkoutLog) int {
	var base int
	switch log.Type {
	case models.WorkoutA, models.WorkoutCustomTemplate:
		base = e.Rules.XPPerWorkout
	case models.WorkoutB:
		base = e.Rules.XPPerHardWorkout
	case models.WorkoutCustom:
		switch {
		case log.Vibes != nil:
			base = min(*log.Vibes, WellbeingXPCap)
		case log.Calories != nil:
			base = *log.Calories / 10
		default:
			base = min(log.DurationMinutes, customDurationCap)
		}
		if log.DurationMinutes < 30 {
			base = min(base, log.DurationMinutes)
		}
	default:
		return 0
	}
	return max(base, 0)
}

// Points computes the spendable-currency award for a single log.
func (e *Engine) Points(log models.WorkoutLog) int {
	switch log.Type {
	case models.WorkoutA, models.WorkoutB, models.WorkoutCustomTemplate:
		return e.Rules.PointsPerWorkout
	case models.WorkoutCustom:
		if log.DurationMinutes < 30 {
			return 0
		}
		return min(log.DurationMinutes, customDurationCap) / 10
	}
	return 0
}

// milestoneBonus returns the flat bonus for reaching exactly the given
// streak length, or 0. Each threshold pays once, at the crossing.
func milestoneBonus(streak int) int {
	for _, m := range streakMilestones {
		if m.Days == streak {
			return m.Bonus
		}
	}
	return 0
}

// Breakdown is the per-log XP decomposition used by the activity feed.
type Breakdown struct {
	Base   int `json:"base"`
	Bonus  int `json:"bonus"`
	Total  int `json:"total"`
	Streak int `json:"streak"`
}

// XPBreakdown replays logs oldest-first and returns each log's base XP,
// streak bonus, and the running streak at that point. Input order does not
// matter; the history is defensively sorted.
func (e *Engine) XPBreakdown(logs []models.WorkoutLog) map[string]Breakdown {
	sorted := models.SortLogsAscending(logs)
	res := make(map[string]Breakdown, len(sorted))

	streak := 0
	var lastDay time.Time
	for _, log := range sorted {
		if !qualifies(log) {
			res[log.ID] = Breakdown{Streak: streak}
			continue
		}

		bonus := 0
		d := day(log.Date)
		switch {
		case streak == 0:
			streak = 1
			lastDay = d
		case d.Equal(lastDay):
			// Second log on the same day: no streak movement, no bonus.
		case daysBetween(lastDay, d) == 1:
			streak++
			bonus = milestoneBonus(streak)
			lastDay = d
		default:
			streak = 1
			lastDay = d
		}

		base := e.LogXP(log)
		res[log.ID] = Breakdown{Base: base, Bonus: bonus, Total: base + bonus, Streak: streak}
	}
	return res
}

// Window selects the leaderboard aggregation period.
type Window string

const (
	WindowWeekly   Window = "weekly"
	WindowMonthly  Window = "monthly"
	WindowLifetime Window = "lifetime"
)

// ParseWindow normalizes a window query value, defaulting to weekly.
func ParseWindow(s string) Window {
	switch Window(s) {
	case WindowMonthly:
		return WindowMonthly
	case WindowLifetime:
		return WindowLifetime
	}
	return WindowWeekly
}

// AggregateXP sums per-log XP (including streak bonuses) for logs inside the
// window. Lifetime short-circuits to the persisted counter instead of
// recomputing from history; state resets are intentional there, so replays
// must not resurrect pre-reset XP.
func (e *Engine) AggregateXP(logs []models.WorkoutLog, window Window, state *models.UserGamificationState) int {
	if window == WindowLifetime {
		return state.EffectiveXP()
	}

	now := e.now()
	var start time.Time
	switch window {
	case WindowMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default: // weekly, Sunday start
		start = day(now).AddDate(0, 0, -int(now.Weekday()))
	}

	var windowLogs []models.WorkoutLog
	for _, log := range logs {
		if !log.Date.Before(start) {
			windowLogs = append(windowLogs, log)
		}
	}

	total := 0
	for _, b := range e.XPBreakdown(windowLogs) {
		total += b.Total
	}
	return total
}
