package gamify

import (
	"sort"
	"time"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// qualifyingDays returns the distinct calendar days carrying at least one
// qualifying (non-commitment) log, newest first.
func qualifyingDays(logs []models.WorkoutLog) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, log := range logs {
		if !qualifies(log) {
			continue
		}
		d := day(log.Date)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// Streak derives the current consecutive-day streak from full history.
// A day counts when it has at least one non-commitment log; duplicate logs
// on one day count once. The walk starts at the most recent qualifying day;
// a single missed day keeps the streak alive (at risk), two or more missed
// days lose it.
func (e *Engine) Streak(logs []models.WorkoutLog) int {
	return e.streakAt(logs, e.now())
}

func (e *Engine) streakAt(logs []models.WorkoutLog, now time.Time) int {
	days := qualifyingDays(logs)
	if len(days) == 0 {
		return 0
	}

	// 0 = trained today, 1 = yesterday, 2 = at risk but alive, 3+ = lost.
	if daysBetween(days[0], now) >= 3 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// StreakAtRisk reports whether the streak survives but today is the last
// chance: the most recent qualifying day is exactly two calendar days ago.
// A fresher history is safe; a staler one means the streak is already gone,
// which is not "at risk".
func (e *Engine) StreakAtRisk(logs []models.WorkoutLog) bool {
	days := qualifyingDays(logs)
	if len(days) == 0 {
		return false
	}
	return daysBetween(days[0], e.now()) == 2
}

// Mood is the coarse activity signal behind the mascot: "fire" for a streak
// of 3+, "tired" after 3+ idle days or an empty history, "normal" otherwise.
func (e *Engine) Mood(logs []models.WorkoutLog) string {
	days := qualifyingDays(logs)
	if len(days) == 0 {
		return "tired"
	}
	if daysBetween(days[0], e.now()) > 3 {
		return "tired"
	}
	if e.streakAt(logs, e.now()) >= 3 {
		return "fire"
	}
	return "normal"
}

// TeamStreak counts consecutive days on which anyone in the tribe trained,
// alive only while the most recent day is today or yesterday.
func (e *Engine) TeamStreak(logs []models.WorkoutLog) int {
	days := qualifyingDays(logs)
	if len(days) == 0 {
		return 0
	}
	if daysBetween(days[0], e.now()) > 1 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// TeamStats aggregates tribe activity against the configured goals. Weekly
// counting (and the per-user contributions) only admits sessions of 30
// minutes or more; monthly and yearly counts take every completed log.
type TeamStats struct {
	WeeklyCount   int            `json:"weeklyCount"`
	MonthlyCount  int            `json:"monthlyCount"`
	YearlyCount   int            `json:"yearlyCount"`
	TeamStreak    int            `json:"teamStreak"`
	UserStats     map[string]int `json:"userStats"`
	WeeklyTarget  int            `json:"weeklyTarget"`
	MonthlyTarget int            `json:"monthlyTarget"`
	YearlyTarget  int            `json:"yearlyTarget"`
}

// TeamStatsFor computes tribe-wide aggregates from the tribe's full log
// collection.
func (e *Engine) TeamStatsFor(logs []models.WorkoutLog) TeamStats {
	now := e.now()
	startOfWeek := day(now).AddDate(0, 0, -int(now.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	stats := TeamStats{
		UserStats:     make(map[string]int),
		TeamStreak:    e.TeamStreak(logs),
		WeeklyTarget:  e.Rules.WeeklyTeamTarget,
		MonthlyTarget: e.Rules.MonthlyTeamTarget,
		YearlyTarget:  e.Rules.YearlyTeamTarget,
	}

	for _, log := range logs {
		if !qualifies(log) {
			continue
		}
		if !log.Date.Before(startOfYear) {
			stats.YearlyCount++
		}
		if !log.Date.Before(startOfMonth) {
			stats.MonthlyCount++
		}
		if !log.Date.Before(startOfWeek) && log.DurationMinutes >= 30 {
			stats.WeeklyCount++
			stats.UserStats[log.User]++
		}
	}
	return stats
}
