package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
)

func TestConversationFilter_RangeOnly(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	where, args := conversationFilter(models.Filter{From: from, To: to})

	assert.Equal(t, "created_at >= $1 AND created_at < $2", where)
	assert.Equal(t, []any{from, to}, args)
}

func TestConversationFilter_AllFilters(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	finalized := true
	stage := models.Stage2

	where, args := conversationFilter(models.Filter{
		From:      from,
		To:        to,
		Agent:     "Ana",
		Finalized: &finalized,
		Stage:     &stage,
	})

	assert.Equal(t,
		"created_at >= $1 AND created_at < $2 AND agent_name = $3 AND finalized = $4 AND followup_stage = $5",
		where)
	assert.Equal(t, []any{from, to, "Ana", true, "stage_2"}, args)
}

func TestConversationFilter_PlaceholdersStayInSync(t *testing.T) {
	finalized := false
	where, args := conversationFilter(models.Filter{Finalized: &finalized})

	assert.Contains(t, where, "finalized = $3")
	assert.Len(t, args, 3)
}
