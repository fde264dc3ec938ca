// Package progression recommends the next session's working weight and reps
// for an exercise from the previous session's completed sets.
package progression

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// Suggestion types.
const (
	IncreaseWeight = "increase_weight"
	IncreaseReps   = "increase_reps"
	Maintain       = "maintain"
)

// WeightIncrement is the smallest plate jump assumed available.
const WeightIncrement = 2.5

// defaultReps is the target substituted for an unparseable rep range.
const defaultReps = 8

// Suggestion is the advisor's output for one exercise. It is ephemeral,
// recomputed from history before each session and never persisted.
type Suggestion struct {
	Type            string  `json:"type"`
	SuggestedWeight float64 `json:"suggestedWeight"`
	SuggestedReps   int     `json:"suggestedReps"`
	Reason          string  `json:"reason"`
}

// RepRange is a parsed target such as "8-10" (min 8, max 10) or "5"
// (min = max = 5).
type RepRange struct {
	Min, Max int
}

// ParseRepRange parses a target rep range string. Junk input never fails;
// unparseable parts fall back to a safe default so session start cannot be
// blocked by a bad plan entry.
func ParseRepRange(s string) RepRange {
	parse := func(part string) (int, bool) {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}

	min, max := defaultReps, defaultReps
	parts := strings.SplitN(s, "-", 2)
	if n, ok := parse(parts[0]); ok {
		min, max = n, n
	}
	if len(parts) > 1 {
		if n, ok := parse(parts[1]); ok && n >= min {
			max = n
		}
	}
	return RepRange{Min: min, Max: max}
}

// Suggest recommends the next working weight and reps from the previous
// session's sets. Returns nil when there is no completed history for the
// exercise: a first-time movement gets no suggestion.
//
// The baseline is the maximum weight among completed sets, so lighter
// warm-up sets never drag the suggestion down. When every completed set hit
// the top of the rep range at that weight the weight goes up and reps reset
// to the bottom of the range; otherwise the target is the top of the range
// at the same weight.
func Suggest(lastSets []models.ExerciseSet, targetRepRange string) *Suggestion {
	var completed []models.ExerciseSet
	for _, s := range lastSets {
		if s.Completed {
			completed = append(completed, s)
		}
	}
	if len(completed) == 0 {
		return nil
	}

	target := ParseRepRange(targetRepRange)

	maxWeight := completed[0].Weight
	for _, s := range completed[1:] {
		if s.Weight > maxWeight {
			maxWeight = s.Weight
		}
	}

	hit := 0
	for _, s := range completed {
		if s.Reps >= target.Max && s.Weight == maxWeight {
			hit++
		}
	}

	switch {
	case hit == len(completed):
		return &Suggestion{
			Type:            IncreaseWeight,
			SuggestedWeight: maxWeight + WeightIncrement,
			SuggestedReps:   target.Min,
			Reason:          fmt.Sprintf("You mastered %gkg! Level up +%gkg.", maxWeight, WeightIncrement),
		}
	case hit > 0:
		return &Suggestion{
			Type:            IncreaseReps,
			SuggestedWeight: maxWeight,
			SuggestedReps:   target.Max,
			Reason:          fmt.Sprintf("Aim for %d reps on all sets at %gkg.", target.Max, maxWeight),
		}
	default:
		return &Suggestion{
			Type:            IncreaseReps,
			SuggestedWeight: maxWeight,
			SuggestedReps:   target.Max,
			Reason:          fmt.Sprintf("Keep pushing %gkg until you hit %d reps.", maxWeight, target.Max),
		}
	}
}

// LastSetsForExercise finds the most recent logged sets for an exercise in a
// user's history, newest log first. Returns nil when the exercise has never
// been logged.
func LastSetsForExercise(history []models.WorkoutLog, exercise string) []models.ExerciseSet {
	for _, log := range models.SortLogsDescending(history) {
		for _, ex := range log.Exercises {
			if ex.Name == exercise && len(ex.Sets) > 0 {
				return ex.Sets
			}
		}
	}
	return nil
}

// LastSetsForExerciseByType is LastSetsForExercise restricted to one plan
// day, so alternating A/B plans prime from the matching day's numbers.
func LastSetsForExerciseByType(history []models.WorkoutLog, exercise string, workoutType models.WorkoutType) []models.ExerciseSet {
	var filtered []models.WorkoutLog
	for _, log := range history {
		if log.Type == workoutType {
			filtered = append(filtered, log)
		}
	}
	return LastSetsForExercise(filtered, exercise)
}
