package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAggregateDaily_CollapsesSameDay verifies same-day readings collapse
// to one aggregated value per calendar day, sorted by date.
func TestAggregateDaily_CollapsesSameDay(t *testing.T) {
	day1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	points := []Point{
		{Time: day2.Add(9 * time.Hour), Value: 30},
		{Time: day1.Add(8 * time.Hour), Value: 10},
		{Time: day1.Add(20 * time.Hour), Value: 20},
	}

	daily := AggregateDaily(points, Mean)
	require.Len(t, daily, 2)

	assert.Equal(t, day1, daily[0].Date)
	assert.Equal(t, 15.0, daily[0].Value)
	assert.Equal(t, day2, daily[1].Date)
	assert.Equal(t, 30.0, daily[1].Value)
}

// TestAggregateDaily_Empty verifies empty input yields an empty result.
func TestAggregateDaily_Empty(t *testing.T) {
	assert.Empty(t, AggregateDaily(nil, Mean))
}
