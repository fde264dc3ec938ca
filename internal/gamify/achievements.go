package gamify

import (
	"strings"
	"time"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// EvalInput bundles the snapshot a badge evaluation runs against. History is
// the user's complete log collection (any order); TribeLogs is optional and
// only consulted by the team-goal badges. NudgesSent comes from the social
// collaborator and gates the social milestones.
type EvalInput struct {
	History    []models.WorkoutLog
	TribeLogs  []models.WorkoutLog
	State      *models.UserGamificationState
	Profile    *models.UserProfile
	NudgesSent int
}

// evalContext is the precomputed view badge predicates read from. Every
// predicate is a pure function of this snapshot; "now" only decides whether
// today qualifies, never retroactively invalidates past completions.
type evalContext struct {
	history []models.WorkoutLog // ascending, qualifying logs only
	streak  int
	team    *TeamStats
	nudges  int
	now     time.Time
}

func (e *Engine) buildContext(in EvalInput) *evalContext {
	ctx := &evalContext{
		streak: e.Streak(in.History),
		nudges: in.NudgesSent,
		now:    e.now(),
	}
	for _, log := range models.SortLogsAscending(in.History) {
		if qualifies(log) {
			ctx.history = append(ctx.history, log)
		}
	}
	if in.TribeLogs != nil {
		team := e.TeamStatsFor(in.TribeLogs)
		ctx.team = &team
	}
	return ctx
}

// anyLog reports whether any qualifying log in history satisfies f.
func (ctx *evalContext) anyLog(f func(models.WorkoutLog) bool) bool {
	for _, log := range ctx.history {
		if f(log) {
			return true
		}
	}
	return false
}

// logsSince counts qualifying logs newer than the cutoff.
func (ctx *evalContext) logsSince(cutoff time.Time) int {
	n := 0
	for _, log := range ctx.history {
		if log.Date.After(cutoff) {
			n++
		}
	}
	return n
}

// consistentWeeks reports whether any `weeks` consecutive calendar weeks
// each contain at least `perWeek` qualifying logs.
func (ctx *evalContext) consistentWeeks(weeks, perWeek int) bool {
	counts := make(map[time.Time]int)
	for _, log := range ctx.history {
		week := day(log.Date).AddDate(0, 0, -int(log.Date.Weekday()))
		counts[week]++
	}
	for week, n := range counts {
		if n < perWeek {
			continue
		}
		run := 1
		for run < weeks {
			next := week.AddDate(0, 0, 7*run)
			if counts[next] < perWeek {
				break
			}
			run++
		}
		if run >= weeks {
			return true
		}
	}
	return false
}

// badgeChecks maps catalog IDs to their unlock predicates. Checks scan the
// whole history rather than just the latest log, which is what makes
// re-evaluation idempotent: satisfied conditions stay satisfied.
var badgeChecks = map[string]func(*evalContext) bool{
	"first_step": func(ctx *evalContext) bool {
		return len(ctx.history) >= 1
	},
	"week_warrior": func(ctx *evalContext) bool {
		return ctx.logsSince(ctx.now.AddDate(0, 0, -7)) >= 3
	},
	"early_bird": func(ctx *evalContext) bool {
		return ctx.anyLog(func(l models.WorkoutLog) bool { return l.Date.Hour() < 8 })
	},
	"night_owl": func(ctx *evalContext) bool {
		return ctx.anyLog(func(l models.WorkoutLog) bool { return l.Date.Hour() >= 20 })
	},
	"streak_5": func(ctx *evalContext) bool {
		return ctx.streak >= 5
	},
	"streak_10": func(ctx *evalContext) bool {
		return ctx.streak >= 10
	},
	"century_club": func(ctx *evalContext) bool {
		return ctx.anyLog(func(l models.WorkoutLog) bool {
			return l.Type != models.WorkoutCustom && l.TotalVolume() >= 1000
		})
	},
	"heavy_lifter": func(ctx *evalContext) bool {
		return ctx.anyLog(func(l models.WorkoutLog) bool {
			return l.Type != models.WorkoutCustom && l.TotalVolume() >= 5000
		})
	},
	"weekend_warrior": func(ctx *evalContext) bool {
		return ctx.anyLog(func(l models.WorkoutLog) bool {
			wd := l.Date.Weekday()
			return wd == time.Saturday || wd == time.Sunday
		})
	},
	"calorie_crusher": func(ctx *evalContext) bool {
		return ctx.anyLog(func(l models.WorkoutLog) bool {
			return l.Calories != nil && *l.Calories >= 500
		})
	},
	"long_haul": func(ctx *evalContext) bool {
		return ctx.anyLog(func(l models.WorkoutLog) bool { return l.DurationMinutes >= 90 })
	},
	"lunch_break": func(ctx *evalContext) bool {
		return ctx.anyLog(func(l models.WorkoutLog) bool {
			return l.Date.Hour() >= 11 && l.Date.Hour() < 13
		})
	},
	"consistency_king": func(ctx *evalContext) bool {
		return ctx.consistentWeeks(4, 3)
	},
	"social_butterfly": func(ctx *evalContext) bool {
		return ctx.nudges >= 5
	},
	"team_player": func(ctx *evalContext) bool {
		return ctx.team != nil && ctx.team.WeeklyCount >= ctx.team.WeeklyTarget
	},
	"goal_crusher": func(ctx *evalContext) bool {
		return ctx.team != nil && ctx.team.MonthlyCount >= ctx.team.MonthlyTarget
	},
}

// Evaluate returns the catalog badges whose conditions hold but which are
// absent from the user's badge set. It never mutates state: calling it twice
// in a row with no new logs returns the same list, and a second call after
// the badges are recorded returns nothing. Badges already held are never
// "un-unlocked" here regardless of what history now says.
func (e *Engine) Evaluate(in EvalInput) []models.Badge {
	if in.State == nil {
		in.State = models.NewGamificationState()
	}
	ctx := e.buildContext(in)

	var unlocked []models.Badge
	for _, badge := range Catalog {
		check, ok := badgeChecks[badge.ID]
		if !ok || in.State.HasBadge(badge.ID) {
			continue
		}
		if check(ctx) {
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked
}

// Award summarizes everything a completed log earned.
type Award struct {
	XP          int               `json:"xp"`
	StreakBonus int               `json:"streakBonus"`
	Points      int               `json:"points"`
	Streak      int               `json:"streak"`
	NewBadges   []models.Badge    `json:"newBadges"`
	Gifts       []models.GiftItem `json:"gifts,omitempty"`
}

// ApplyLog scores a just-completed log and folds the award into the user's
// state: XP (base plus any streak milestone crossed), points, newly unlocked
// badges with their flat bonus and a raffled gift. History must already
// include the log. A commitment pledge matching the log's day is considered
// fulfilled and cleared.
//
// The caller owns persistence of the mutated state; this function performs
// no I/O.
func (e *Engine) ApplyLog(log models.WorkoutLog, in EvalInput) Award {
	if in.State == nil {
		in.State = models.NewGamificationState()
	}
	state := in.State

	award := Award{Streak: e.Streak(in.History)}
	if !qualifies(log) {
		return award
	}

	award.XP = e.LogXP(log)
	award.Points = e.Points(log)
	if b, ok := e.XPBreakdown(in.History)[log.ID]; ok {
		award.StreakBonus = b.Bonus
	}

	state.AddXP(award.XP + award.StreakBonus)
	state.Points += award.Points

	if state.Commitment != nil && day(*state.Commitment).Equal(day(log.Date)) {
		state.Commitment = nil
	}

	for _, badge := range e.Evaluate(in) {
		state.AddBadge(badge.ID)
		state.Points += e.Rules.BadgeBonus
		state.AddXP(e.Rules.BadgeBonus)
		gift := GiftItems[e.intn(len(GiftItems))]
		state.AddGift(gift)
		award.NewBadges = append(award.NewBadges, badge)
		award.Gifts = append(award.Gifts, gift)
	}
	return award
}

// RevertLog undoes a deleted log's contribution: its XP and points are
// subtracted and every catalog badge is re-verified against the remaining
// history, losing its flat bonus if it no longer holds. This is the one
// sanctioned exception to badge-set monotonicity, and it is an explicit
// administrative operation, never part of the scoring path. History must no
// longer contain the deleted log.
func (e *Engine) RevertLog(log models.WorkoutLog, in EvalInput) {
	if in.State == nil {
		return
	}
	state := in.State

	xp := e.LogXP(log)
	points := e.Points(log)
	lifetime := max(state.EffectiveXP()-xp, 0)
	state.LifetimeXP = &lifetime
	state.Points = max(state.Points-points, 0)

	// Deleting the pledge itself withdraws it.
	if log.Type == models.WorkoutCommitment && state.Commitment != nil &&
		day(*state.Commitment).Equal(day(log.Date)) {
		state.Commitment = nil
	}

	ctx := e.buildContext(in)
	var kept []string
	for _, id := range state.Badges {
		// Dynamic commitment badges from older clients are not catalog
		// entries and survive re-verification untouched.
		if strings.HasPrefix(id, "committed_") {
			kept = append(kept, id)
			continue
		}
		check, ok := badgeChecks[id]
		if ok && check(ctx) {
			kept = append(kept, id)
			continue
		}
		lost := max(state.EffectiveXP()-e.Rules.BadgeBonus, 0)
		state.LifetimeXP = &lost
		state.Points = max(state.Points-e.Rules.BadgeBonus, 0)
	}
	state.Badges = kept
}
