package metrics

import (
	"math"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// BestSet returns the completed set with the highest weight. Ties keep the
// first occurrence; the only consumer is display, not scoring. ok is false
// when no completed set exists.
func BestSet(sets []models.ExerciseSet) (best models.ExerciseSet, ok bool) {
	for _, s := range sets {
		if !s.Completed {
			continue
		}
		if !ok || s.Weight > best.Weight {
			best = s
			ok = true
		}
	}
	return best, ok
}

// Estimate1RM estimates a one-rep max using the Epley formula. A single rep
// is already a max attempt and returns the weight unchanged.
func Estimate1RM(weight float64, reps int) float64 {
	if reps <= 0 || weight <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return math.Round(weight*(1+float64(reps)/30)*10) / 10
}

// PR holds per-exercise personal records extracted from history.
type PR struct {
	MaxWeight    float64 `json:"maxWeight"`
	MaxReps      int     `json:"maxReps"`
	Estimated1RM float64 `json:"estimated1RM"`
}

// PRStats scans full log history and returns personal records keyed by
// exercise name. Only completed sets count.
func PRStats(logs []models.WorkoutLog) map[string]PR {
	stats := make(map[string]PR)
	for _, log := range logs {
		for _, ex := range log.Exercises {
			pr := stats[ex.Name]
			for _, s := range ex.Sets {
				if !s.Completed {
					continue
				}
				if s.Weight > pr.MaxWeight {
					pr.MaxWeight = s.Weight
				}
				if s.Reps > pr.MaxReps {
					pr.MaxReps = s.Reps
				}
				if est := Estimate1RM(s.Weight, s.Reps); est > pr.Estimated1RM {
					pr.Estimated1RM = est
				}
			}
			if pr.MaxWeight > 0 || pr.MaxReps > 0 {
				stats[ex.Name] = pr
			}
		}
	}
	return stats
}
