package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
)

func TestBuildSummary(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []models.ConversationRecord{
		conv(base, "Ana", true, models.Stage1),
		conv(base, "Ana", true, models.Stage2),
		conv(base, "Bruno", false, models.Stage2),
		conv(base, "Bruno", false, models.StageNone),
	}

	summary := buildSummary(records)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Finalized)
	assert.Equal(t, 2, summary.InProgress)
	assert.Equal(t, 50.0, summary.ConversionRate)
	assert.Equal(t, 1, summary.StageCounts[models.Stage1])
	assert.Equal(t, 2, summary.StageCounts[models.Stage2])
	assert.Equal(t, 0, summary.StageCounts[models.Stage3])
	assert.Equal(t, 0, summary.StageCounts[models.Stage4])
}

func TestBuildSummary_EmptyRangeIsZeroNotNaN(t *testing.T) {
	summary := buildSummary(nil)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Finalized)
	assert.Equal(t, 0, summary.InProgress)
	assert.Equal(t, 0.0, summary.ConversionRate)
	assert.Len(t, summary.StageCounts, 4)
	for _, stage := range models.Stages {
		assert.Equal(t, 0, summary.StageCounts[stage])
	}
}

func TestBuildSummary_StageCountsAreExactNotCumulative(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []models.ConversationRecord{
		conv(base, "Ana", false, models.Stage4),
		conv(base, "Ana", false, models.Stage4),
	}

	summary := buildSummary(records)

	assert.Equal(t, 0, summary.StageCounts[models.Stage1])
	assert.Equal(t, 2, summary.StageCounts[models.Stage4])
}
