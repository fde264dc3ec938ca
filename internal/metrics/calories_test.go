package metrics

import (
	"testing"
	"time"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// TestCalculateCaloriesZeroDuration verifies the zero-duration guard for any
// profile shape.
func TestCalculateCaloriesZeroDuration(t *testing.T) {
	dob := time.Date(1992, 3, 14, 0, 0, 0, 0, time.UTC)
	profiles := []*models.UserProfile{
		nil,
		{},
		{Weight: 80, Height: 180, Gender: "male", DOB: &dob},
	}
	for _, p := range profiles {
		if got := CalculateCalories(p, 5.0, 0); got != 0 {
			t.Errorf("CalculateCalories(%+v, 5.0, 0) = %d, want 0", p, got)
		}
	}
}

// TestCalculateCaloriesFallback verifies the MET-only fallback with the 70 kg
// default weight: round(5.0 * 70 * 1h) = 350.
func TestCalculateCaloriesFallback(t *testing.T) {
	if got := CalculateCalories(nil, 5.0, 60); got != 350 {
		t.Errorf("fallback calories = %d, want 350", got)
	}
	// Weight present but profile incomplete: still the fallback formula,
	// using the real weight.
	p := &models.UserProfile{Weight: 100}
	if got := CalculateCalories(p, 5.0, 60); got != 500 {
		t.Errorf("fallback with weight = %d, want 500", got)
	}
}

// TestCalculateCaloriesBMR verifies the Mifflin-St Jeor path for a complete
// male profile (80 kg, 180 cm, age 34): bmr=1760, 1760/24*5*1h ~= 366.7.
func TestCalculateCaloriesBMR(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	dob := time.Date(1992, 3, 14, 0, 0, 0, 0, time.UTC) // age 34 at now
	p := &models.UserProfile{Weight: 80, Height: 180, Gender: "male", DOB: &dob}

	got := CalculateCaloriesAt(p, 5.0, 60, now)
	if got < 364 || got > 368 {
		t.Errorf("BMR calories = %d, want ~365-367", got)
	}

	// Female offset is -161 instead of +5: bmr=1594, ~332 kcal.
	pf := &models.UserProfile{Weight: 80, Height: 180, Gender: "female", DOB: &dob}
	gotF := CalculateCaloriesAt(pf, 5.0, 60, now)
	if gotF >= got {
		t.Errorf("female calories = %d, want below male %d", gotF, got)
	}
}

// TestCalculateCaloriesMonotonic verifies calories never decrease as
// duration grows, for both formula paths.
func TestCalculateCaloriesMonotonic(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	dob := time.Date(1992, 3, 14, 0, 0, 0, 0, time.UTC)
	profiles := []*models.UserProfile{
		nil,
		{Weight: 80, Height: 180, Gender: "male", DOB: &dob},
	}
	for _, p := range profiles {
		prev := 0
		for d := 0; d <= 180; d += 15 {
			got := CalculateCaloriesAt(p, 6.0, d, now)
			if got < prev {
				t.Fatalf("calories(%d min) = %d < calories at previous duration %d", d, got, prev)
			}
			prev = got
		}
	}
}

// TestAge verifies whole-year age including the not-yet-birthday decrement.
func TestAge(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		dob  time.Time
		want int
	}{
		{time.Date(1992, 3, 14, 0, 0, 0, 0, time.UTC), 34},  // birthday passed
		{time.Date(1992, 11, 2, 0, 0, 0, 0, time.UTC), 33},  // birthday upcoming
		{time.Date(1992, 8, 28, 0, 0, 0, 0, time.UTC), 34},  // birthday today
		{time.Date(1992, 8, 29, 0, 0, 0, 0, time.UTC), 33},  // birthday tomorrow
		{time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), 0},    // future dob clamps to 0
	}
	for _, c := range cases {
		if got := Age(c.dob, now); got != c.want {
			t.Errorf("Age(%s) = %d, want %d", c.dob.Format("2006-01-02"), got, c.want)
		}
	}
}

// TestIntensityFactor verifies the linear 1-10 mapping stays inside [0.8, 1.2].
func TestIntensityFactor(t *testing.T) {
	if got := IntensityFactor(0); got != 1.0 {
		t.Errorf("IntensityFactor(0) = %v, want 1.0 (neutral)", got)
	}
	if got := IntensityFactor(1); got < 0.83 || got > 0.85 {
		t.Errorf("IntensityFactor(1) = %v, want 0.84", got)
	}
	if got := IntensityFactor(5); got < 0.99 || got > 1.01 {
		t.Errorf("IntensityFactor(5) = %v, want 1.0", got)
	}
	if got := IntensityFactor(10); got != 1.2 {
		t.Errorf("IntensityFactor(10) = %v, want 1.2", got)
	}
	if got := IntensityFactor(99); got != 1.2 {
		t.Errorf("IntensityFactor(99) = %v, want clamp at 1.2", got)
	}
}

// TestActivityMET verifies table lookup with the "Other" default.
func TestActivityMET(t *testing.T) {
	if got := ActivityMET("Running"); got != 9.8 {
		t.Errorf("Running MET = %v, want 9.8", got)
	}
	if got := ActivityMET("Underwater Basket Weaving"); got != 5.0 {
		t.Errorf("unknown activity MET = %v, want 5.0", got)
	}
}

// TestVibesScore verifies wellbeing scoring scales duration by intensity.
func TestVibesScore(t *testing.T) {
	if got := VibesScore(0, 5); got != 0 {
		t.Errorf("VibesScore(0) = %d, want 0", got)
	}
	if got := VibesScore(30, 0); got != 30 {
		t.Errorf("VibesScore(30, neutral) = %d, want 30", got)
	}
	if got := VibesScore(30, 10); got != 36 {
		t.Errorf("VibesScore(30, 10) = %d, want 36", got)
	}
}

// TestBMI verifies rounding and missing-input behavior.
func TestBMI(t *testing.T) {
	if got := BMI(180, 80); got != 24.7 {
		t.Errorf("BMI(180, 80) = %v, want 24.7", got)
	}
	if got := BMI(0, 80); got != 0 {
		t.Errorf("BMI without height = %v, want 0", got)
	}
}
