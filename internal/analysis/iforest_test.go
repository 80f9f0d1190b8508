package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plantedSeries() ([]float64, []int) {
	values := make([]float64, 0, 33)
	for i := 0; i < 30; i++ {
		values = append(values, 70+math.Sin(float64(i))*2)
	}
	planted := []int{len(values), len(values) + 1, len(values) + 2}
	values = append(values, 150, 155, 160)
	return values, planted
}

// TestOutliers_FindsPlantedExtremes verifies that values far outside the
// bulk of the distribution end up in the outlier set.
func TestOutliers_FindsPlantedExtremes(t *testing.T) {
	values, planted := plantedSeries()

	forest := FitIsolationForest(values, DefaultTrees, 42)
	outliers := forest.Outliers(0.15)

	for _, idx := range planted {
		assert.Contains(t, outliers, idx, "planted extreme at index %d should be flagged", idx)
	}
}

// TestOutliers_Deterministic verifies that the same seed reproduces the
// same outlier set.
func TestOutliers_Deterministic(t *testing.T) {
	values, _ := plantedSeries()

	a := FitIsolationForest(values, DefaultTrees, 42).Outliers(0.1)
	b := FitIsolationForest(values, DefaultTrees, 42).Outliers(0.1)
	assert.Equal(t, a, b)
}

// TestOutliers_ContaminationBudget verifies k = ceil(contamination * n)
// and the [0, 0.5] clamp.
func TestOutliers_ContaminationBudget(t *testing.T) {
	values, _ := plantedSeries()
	forest := FitIsolationForest(values, DefaultTrees, 1)
	n := len(values)

	assert.Len(t, forest.Outliers(0.1), int(math.Ceil(0.1*float64(n))))
	assert.Len(t, forest.Outliers(0.9), n/2+n%2, "contamination above 0.5 is clamped")
	assert.Empty(t, forest.Outliers(0))
	assert.Empty(t, forest.Outliers(-1))
}

// TestOutliers_SortedInputOrder verifies outlier indices come back in
// ascending input order regardless of score ranking.
func TestOutliers_SortedInputOrder(t *testing.T) {
	values, _ := plantedSeries()
	outliers := FitIsolationForest(values, DefaultTrees, 7).Outliers(0.2)

	require.NotEmpty(t, outliers)
	for i := 1; i < len(outliers); i++ {
		assert.Less(t, outliers[i-1], outliers[i])
	}
}

// TestScores_HigherForIsolatedPoints is a sanity check that scores rank
// the planted extremes above the bulk.
func TestScores_HigherForIsolatedPoints(t *testing.T) {
	values, planted := plantedSeries()
	scores := FitIsolationForest(values, DefaultTrees, 42).Scores()
	require.Len(t, scores, len(values))

	var bulkMax float64
	for i, s := range scores {
		if i < planted[0] && s > bulkMax {
			bulkMax = s
		}
	}
	for _, idx := range planted {
		assert.Greater(t, scores[idx], bulkMax)
	}
}
