// Package gamify is the scoring core: XP and points, streak tracking, badge
// unlocking, and level progression. Every computation is a pure synchronous
// function over caller-supplied history and state; the package performs no
// I/O and holds no global mutable state. Persistence and read-modify-write
// atomicity belong to the storage collaborator.
package gamify

import (
	"math/rand"
	"time"
)

// Rules carries the tunable scoring constants. The zero value is not usable;
// construct with DefaultRules or from the loaded configuration.
type Rules struct {
	XPPerWorkout      int
	XPPerHardWorkout  int
	PointsPerWorkout  int
	XPPerGift         int
	BadgeBonus        int
	LevelXP           int
	WeeklyTeamTarget  int
	MonthlyTeamTarget int
	YearlyTeamTarget  int
}

// DefaultRules returns the constants the legacy catalog shipped with.
func DefaultRules() Rules {
	return Rules{
		XPPerWorkout:      100,
		XPPerHardWorkout:  100,
		PointsPerWorkout:  10,
		XPPerGift:         20,
		BadgeBonus:        50,
		LevelXP:           500,
		WeeklyTeamTarget:  9,
		MonthlyTeamTarget: 36,
		YearlyTeamTarget:  400,
	}
}

// Engine evaluates the scoring rules. Now and Rand are injectable for tests;
// nil values fall back to the wall clock and the global RNG source.
type Engine struct {
	Rules Rules
	Now   func() time.Time
	Rand  *rand.Rand
}

// New returns an Engine using the wall clock.
func New(rules Rules) *Engine {
	return &Engine{Rules: rules}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) intn(n int) int {
	if e.Rand != nil {
		return e.Rand.Intn(n)
	}
	return rand.Intn(n)
}

// day truncates a timestamp to its local calendar day.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween is the whole calendar-day difference b-a, ignoring
// time-of-day. Date components are normalized to UTC so DST transitions
// cannot skew the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	at := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bt := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bt.Sub(at).Hours() / 24)
}
