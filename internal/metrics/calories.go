// Package metrics computes derived fitness metrics from profiles and logs.
// Everything here is a pure function: missing or incomplete inputs degrade to
// documented fallbacks instead of returning errors.
package metrics

import (
	"math"
	"time"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// DefaultWeightKg is assumed when the profile has no body weight.
const DefaultWeightKg = 70.0

// METValues maps fitness activities to metabolic equivalents.
var METValues = map[string]float64{
	"Walking":          3.5,
	"Running":          9.8,
	"Treadmill":        7.0,
	"Spin Bike":        8.5,
	"Yoga":             2.5,
	"Squash":           7.3,
	"Swimming":         8.0,
	"HIIT":             8.0,
	"Dancing":          4.5,
	"Hiking":           6.0,
	"Jump Rope":        11.0,
	"Pilates":          3.0,
	"Circuit Training": 8.0,
	"Other":            5.0,
}

// WellbeingActivities are scored with vibes instead of calories.
var WellbeingActivities = []string{
	"Cooking", "Baking", "Painting", "Music", "Meditation",
	"Reading", "Gardening", "Other",
}

// ActivityMET looks up the MET for an activity, defaulting to the "Other"
// value for anything unknown.
func ActivityMET(activity string) float64 {
	if met, ok := METValues[activity]; ok {
		return met
	}
	return METValues["Other"]
}

// IntensityFactor maps the 1-10 intensity slider to a multiplier in
// [0.8, 1.2]. Zero (unset) means neutral. Applied to fitness-mode MET only,
// never to wellbeing scoring.
func IntensityFactor(intensity int) float64 {
	if intensity <= 0 {
		return 1.0
	}
	if intensity > 10 {
		intensity = 10
	}
	return 0.8 + float64(intensity)/10*0.4
}

// Age returns whole years between dob and now, decrementing when the
// birthday has not yet occurred this year.
func Age(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// CalculateCalories estimates kcal burned for an activity.
//
// With a complete profile it uses the Mifflin-St Jeor BMR:
//
//	bmr = 10*weight + 6.25*height - 5*age + (5 male | -161 otherwise)
//	kcal = round(bmr/24 * met * hours)
//
// Otherwise it falls back to round(met * weight * hours) with a 70 kg
// default weight. Zero duration always returns 0.
func CalculateCalories(profile *models.UserProfile, met float64, durationMinutes int) int {
	return CalculateCaloriesAt(profile, met, durationMinutes, time.Now())
}

// CalculateCaloriesAt is CalculateCalories with an injectable clock for age
// computation.
func CalculateCaloriesAt(profile *models.UserProfile, met float64, durationMinutes int, now time.Time) int {
	if durationMinutes <= 0 {
		return 0
	}

	hours := float64(durationMinutes) / 60

	if profile.HasBMRData() {
		age := Age(*profile.DOB, now)
		bmr := 10*profile.Weight + 6.25*profile.Height - 5*float64(age)
		if profile.Gender == "male" {
			bmr += 5
		} else {
			bmr -= 161
		}
		return int(math.Round(bmr / 24 * met * hours))
	}

	weight := DefaultWeightKg
	if profile != nil && profile.Weight > 0 {
		weight = profile.Weight
	}
	return int(math.Round(met * weight * hours))
}

// VibesScore is the wellbeing-mode intensity score: duration scaled by the
// intensity factor. It replaces calories for non-exercise activities.
func VibesScore(durationMinutes, intensity int) int {
	if durationMinutes <= 0 {
		return 0
	}
	return int(math.Round(float64(durationMinutes) * IntensityFactor(intensity)))
}

// BMI computes body mass index to one decimal, or 0 when inputs are missing.
func BMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return math.Round(weightKg/(heightM*heightM)*10) / 10
}
