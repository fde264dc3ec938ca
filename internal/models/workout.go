package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// WorkoutType is the closed set of log kinds. Stored values are the exact
// strings used by the legacy client ("A", "B", "Custom", "Custom_Template",
// "COMMITMENT"); ParseWorkoutType is the single place loose inputs are
// normalized into this set.
type WorkoutType string

const (
	WorkoutA              WorkoutType = "A"
	WorkoutB              WorkoutType = "B"
	WorkoutCustom         WorkoutType = "Custom"
	WorkoutCustomTemplate WorkoutType = "Custom_Template"
	WorkoutCommitment     WorkoutType = "COMMITMENT"
)

// ParseWorkoutType normalizes a raw type string. Legacy data contains case
// variants ("Commitment", "custom"). Unknown values return ok=false; callers
// score such logs as zero rather than failing.
func ParseWorkoutType(s string) (WorkoutType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return WorkoutA, true
	case "b":
		return WorkoutB, true
	case "custom":
		return WorkoutCustom, true
	case "custom_template":
		return WorkoutCustomTemplate, true
	case "commitment":
		return WorkoutCommitment, true
	}
	return "", false
}

// UnmarshalJSON normalizes the stored string through ParseWorkoutType.
// Unrecognized values are kept verbatim so they round-trip, but they will
// never match any of the typed constants.
func (t *WorkoutType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, ok := ParseWorkoutType(s); ok {
		*t = parsed
	} else {
		*t = WorkoutType(s)
	}
	return nil
}

// IsPlan reports whether the log belongs to the alternating strength plan.
func (t WorkoutType) IsPlan() bool {
	return t == WorkoutA || t == WorkoutB || t == WorkoutCustomTemplate
}

// ExerciseSet is a single performed set.
type ExerciseSet struct {
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// ExerciseRecord is one exercise performed within a log. Superset fields are
// UI sequencing hints only and never influence scoring.
type ExerciseRecord struct {
	ID            string        `json:"id,omitempty"`
	Name          string        `json:"name"`
	Sets          []ExerciseSet `json:"sets"`
	Notes         string        `json:"notes,omitempty"`
	IsSuperset    bool          `json:"isSuperset,omitempty"`
	SupersetGroup int           `json:"supersetGroup,omitempty"`
}

// CompletedVolume is the total weight moved across completed sets.
func (e ExerciseRecord) CompletedVolume() float64 {
	var total float64
	for _, s := range e.Sets {
		if s.Completed {
			total += s.Weight * float64(s.Reps)
		}
	}
	return total
}

// WorkoutLog is one completed (or committed-to) activity instance.
//
// Exactly one of Calories and Vibes is meaningful per log: Calories for
// fitness-mode custom activities, Vibes for wellbeing mode. A COMMITMENT log
// keeps the same ID when it is later replaced by the real workout so that
// reactions attached to the ID stay valid.
type WorkoutLog struct {
	ID              string           `json:"id"`
	Date            time.Time        `json:"date"`
	User            string           `json:"user"`
	Type            WorkoutType      `json:"type"`
	Exercises       []ExerciseRecord `json:"exercises"`
	DurationMinutes int              `json:"durationMinutes"`
	Calories        *int             `json:"calories,omitempty"`
	Vibes           *int             `json:"vibes,omitempty"`
	CustomActivity  string           `json:"customActivity,omitempty"`
	Intensity       int              `json:"intensity,omitempty"`
}

// TotalVolume is the completed-set volume across all exercises.
func (l WorkoutLog) TotalVolume() float64 {
	var total float64
	for _, e := range l.Exercises {
		total += e.CompletedVolume()
	}
	return total
}

// IsFailedCommitment reports whether the log is an unfulfilled pledge: a
// COMMITMENT whose calendar day has passed without being replaced.
func (l WorkoutLog) IsFailedCommitment(now time.Time) bool {
	if l.Type != WorkoutCommitment {
		return false
	}
	y, m, d := l.Date.Date()
	ny, nm, nd := now.Date()
	logDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return logDay.Before(nowDay)
}

// SortLogsAscending returns a copy ordered oldest-first. Engine entry points
// sort defensively because the storage layer returns newest-first.
func SortLogsAscending(logs []WorkoutLog) []WorkoutLog {
	sorted := make([]WorkoutLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// SortLogsDescending returns a copy ordered newest-first.
func SortLogsDescending(logs []WorkoutLog) []WorkoutLog {
	sorted := make([]WorkoutLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}
