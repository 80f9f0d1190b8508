package wearable

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"
)

// MockProvider generates realistic biomarker data without provider
// credentials. Seeded per user so repeated syncs produce the same series
// (and dedup upstream keeps the store clean).
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Biomarkers(ctx context.Context, userID string, from, to time.Time) ([]Biomarker, error) {
	h := fnv.New64a()
	h.Write([]byte(userID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	var biomarkers []Biomarker
	day := from.UTC().Truncate(24 * time.Hour)
	end := to.UTC()

	for ; !day.After(end); day = day.AddDate(0, 0, 1) {
		ts := day.Add(8 * time.Hour) // morning reading

		sleep := 6.5 + rng.Float64()*2.5
		// Less sleep nudges resting heart rate up, so correlation analysis
		// has something to find in demo data.
		restingHR := 75 - 3*(sleep-7.5) + rng.NormFloat64()*2

		add := func(metricType, value, unit string) {
			biomarkers = append(biomarkers, Biomarker{
				Type:          metricType,
				Value:         value,
				Unit:          unit,
				StartDateTime: ts,
				Source:        "mock",
			})
		}

		// Activity
		add("steps", fmt.Sprintf("%d", 3000+rng.Intn(9000)), "steps")
		add("floors_climbed", fmt.Sprintf("%d", 5+rng.Intn(20)), "floors")
		add("active_duration", fmt.Sprintf("%d", 30+rng.Intn(210)), "minutes")
		add("active_energy_burned", fmt.Sprintf("%d", 300+rng.Intn(500)), "kcal")

		// Sleep
		add("sleep_duration", fmt.Sprintf("%.1f", sleep), "hours")
		add("sleep_deep_duration", fmt.Sprintf("%.1f", sleep*0.2), "hours")
		add("sleep_rem_duration", fmt.Sprintf("%.1f", sleep*0.25), "hours")

		// Heart
		add("heart_rate_resting", fmt.Sprintf("%.0f", restingHR), "bpm")
		add("heart_rate_sleep", fmt.Sprintf("%.0f", restingHR-8+rng.NormFloat64()*2), "bpm")
		add("heart_rate_variability_sdnn", fmt.Sprintf("%.0f", 40+rng.Float64()*30), "ms")

		// Body
		add("weight", fmt.Sprintf("%.1f", 70+rng.Float64()*15), "kg")
		add("body_mass_index", fmt.Sprintf("%.1f", 22+rng.Float64()*5), "kg/m2")
		add("body_fat", fmt.Sprintf("%.1f", 15+rng.Float64()*10), "%")

		// Vitals
		add("blood_pressure_systolic", fmt.Sprintf("%d", 110+rng.Intn(20)), "mmHg")
		add("blood_pressure_diastolic", fmt.Sprintf("%d", 70+rng.Intn(15)), "mmHg")
		add("oxygen_saturation", fmt.Sprintf("%.1f", 95+rng.Float64()*4), "%")
		add("respiratory_rate", fmt.Sprintf("%.1f", 12+rng.Float64()*6), "breaths/min")
		// Composite reading: excluded from numeric analyses by the tools.
		add("blood_pressure", fmt.Sprintf("%d/%d", 110+rng.Intn(20), 70+rng.Intn(15)), "mmHg")
	}

	return biomarkers, nil
}
