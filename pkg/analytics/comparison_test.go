package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
)

func TestVariation(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		current  float64
		want     float64
	}{
		{"both zero", 0, 0, 0},
		{"previous zero current nonzero", 0, 7, 100},
		{"growth", 10, 15, 50},
		{"decline", 20, 15, -25},
		{"unchanged", 8, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, variation(tt.previous, tt.current))
		})
	}
}

func TestMonthWindows(t *testing.T) {
	now := time.Date(2026, 3, 17, 15, 30, 0, 0, time.UTC)

	currentFrom, currentTo, previousFrom, previousTo := monthWindows(now)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), currentFrom)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), currentTo)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), previousFrom)
	assert.Equal(t, currentFrom, previousTo)
}

func TestMonthWindows_JanuaryRollsBackAYear(t *testing.T) {
	now := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	_, _, previousFrom, previousTo := monthWindows(now)

	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), previousFrom)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), previousTo)
}

func TestMonthComparison(t *testing.T) {
	now := time.Date(2026, 3, 17, 15, 30, 0, 0, time.UTC)
	currentFrom, _, previousFrom, _ := monthWindows(now)

	currentAt := currentFrom.Add(48 * time.Hour)
	previousAt := previousFrom.Add(48 * time.Hour)
	src := &fakeSource{
		conversationsByRange: map[time.Time][]models.ConversationRecord{
			currentFrom: {
				conv(currentAt, "Ana", true, models.Stage1),
				conv(currentAt, "Ana", true, models.Stage2),
				conv(currentAt, "Bruno", false, models.StageNone),
			},
			previousFrom: {
				conv(previousAt, "Ana", true, models.Stage1),
				conv(previousAt, "Bruno", false, models.StageNone),
			},
		},
	}
	s := newTestService(src)

	comparison, err := s.monthComparisonAt(context.Background(), testConn(), now)
	require.NoError(t, err)

	assert.Equal(t, 3, comparison.Current.Total)
	assert.Equal(t, 2, comparison.Previous.Total)
	assert.Equal(t, 50.0, comparison.Variation.Total)
	assert.Equal(t, 100.0, comparison.Variation.Finalized)
	assert.Equal(t, 0.0, comparison.Variation.InProgress)
	// Conversion went 50% -> 66.67%.
	assert.Equal(t, 33.34, comparison.Variation.ConversionRate)
}

func TestMonthComparison_EmptyMonthsAreZeroVariation(t *testing.T) {
	src := &fakeSource{conversationsByRange: map[time.Time][]models.ConversationRecord{}}
	s := newTestService(src)

	comparison, err := s.monthComparisonAt(context.Background(), testConn(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, comparison.Current.Total)
	assert.Equal(t, 0, comparison.Previous.Total)
	assert.Equal(t, models.SummaryVariation{}, comparison.Variation)
}
