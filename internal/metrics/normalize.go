// Package metrics defines the canonical health-metric vocabulary and maps
// user-friendly names onto it.
package metrics

import "strings"

// Canonical metric types as stored in health_metrics.metric_type.
const (
	HeartRateResting          = "heart_rate_resting"
	HeartRateSleep            = "heart_rate_sleep"
	HeartRateVariabilitySDNN  = "heart_rate_variability_sdnn"
	HeartRateVariabilityRMSSD = "heart_rate_variability_rmssd"
	Steps                     = "steps"
	ActiveDuration            = "active_duration"
	FloorsClimbed             = "floors_climbed"
	ActiveEnergyBurned        = "active_energy_burned"
	SleepDuration             = "sleep_duration"
	SleepDeepDuration         = "sleep_deep_duration"
	SleepREMDuration          = "sleep_rem_duration"
	SleepLightDuration        = "sleep_light_duration"
	Weight                    = "weight"
	BodyMassIndex             = "body_mass_index"
	BodyFat                   = "body_fat"
	Height                    = "height"
	BloodPressureSystolic     = "blood_pressure_systolic"
	BloodPressureDiastolic    = "blood_pressure_diastolic"
	OxygenSaturation          = "oxygen_saturation"
	RespiratoryRate           = "respiratory_rate"
	BloodGlucose              = "blood_glucose"
)

// aliases maps lower-cased user-friendly names to canonical metric types.
// Exact match or passthrough; no fuzzy matching.
var aliases = map[string]string{
	// Heart rate variations
	"heart rate":         HeartRateResting,
	"heartrate":          HeartRateResting,
	"heart_rate":         HeartRateResting,
	"resting heart rate": HeartRateResting,
	"resting heartrate":  HeartRateResting,
	"hr":                 HeartRateResting,
	"heart rate sleep":   HeartRateSleep,
	"sleep heart rate":   HeartRateSleep,

	// Heart rate variability
	"hrv":                    HeartRateVariabilitySDNN,
	"heart rate variability": HeartRateVariabilitySDNN,
	"hrv sdnn":               HeartRateVariabilitySDNN,
	"hrv rmssd":              HeartRateVariabilityRMSSD,

	// Sleep variations
	"sleep":          SleepDuration,
	"sleep time":     SleepDuration,
	"hours of sleep": SleepDuration,
	"deep sleep":     SleepDeepDuration,
	"rem sleep":      SleepREMDuration,
	"light sleep":    SleepLightDuration,

	// Activity variations
	"step count":  Steps,
	"daily steps": Steps,
	"walking":     Steps,
	"active time": ActiveDuration,
	"activity":    ActiveDuration,
	"exercise":    ActiveDuration,

	// Body metrics
	"weight":          Weight,
	"body weight":     Weight,
	"bmi":             BodyMassIndex,
	"body mass index": BodyMassIndex,
	"body fat":        BodyFat,
	"fat percentage":  BodyFat,

	// Other vitals
	"oxygen":           OxygenSaturation,
	"o2":               OxygenSaturation,
	"spo2":             OxygenSaturation,
	"blood pressure":   BloodPressureSystolic,
	"systolic":         BloodPressureSystolic,
	"diastolic":        BloodPressureDiastolic,
	"respiratory rate": RespiratoryRate,
	"breathing rate":   RespiratoryRate,
	"glucose":          BloodGlucose,
	"blood sugar":      BloodGlucose,
}

// Normalize maps a user-provided metric name to its canonical form. Unmapped
// names are returned as given, since they may already be canonical. Total and
// deterministic: the anomaly and forecasting tools rely on both resolving the
// same input to the same series.
func Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return name
}

// Aliases returns a copy of the alias table keys, for tests and diagnostics.
func Aliases() []string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	return keys
}
