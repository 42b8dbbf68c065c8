package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// Sentinel labels for records missing an agent or stage. Such records
// are grouped under the sentinel, never dropped.
const (
	unassignedAgent = "unassigned"
	noStageLabel    = "none"
)

// Quality breaks the filtered range down by handling agent and by
// follow-up stage.
func (s *Service) Quality(ctx context.Context, conn store.ConnectionConfig, f models.Filter) (*models.QualityMetrics, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("quality", start, err)
		return nil, err
	}
	records, err := src.Conversations(ctx, f)
	if err != nil {
		s.observe("quality", start, err)
		return nil, err
	}

	s.observe("quality", start, nil)
	return buildQuality(records), nil
}

func buildQuality(records []models.ConversationRecord) *models.QualityMetrics {
	agentIndex := make(map[string]int)
	var agents []models.AgentQuality

	stageIndex := make(map[string]int)
	var stages []models.StageBreakdown

	for _, rec := range records {
		agent := rec.AgentName
		if agent == "" {
			agent = unassignedAgent
		}
		i, ok := agentIndex[agent]
		if !ok {
			i = len(agents)
			agentIndex[agent] = i
			agents = append(agents, models.AgentQuality{Agent: agent})
		}
		agents[i].Total++
		if rec.Finalized {
			agents[i].Finalized++
		}

		stage := string(rec.Stage)
		if stage == "" {
			stage = noStageLabel
		}
		j, ok := stageIndex[stage]
		if !ok {
			j = len(stages)
			stageIndex[stage] = j
			stages = append(stages, models.StageBreakdown{Stage: stage})
		}
		stages[j].Count++
	}

	for i := range agents {
		if agents[i].Total > 0 {
			agents[i].Rate = round2(float64(agents[i].Finalized) / float64(agents[i].Total) * 100)
		}
	}
	total := len(records)
	for i := range stages {
		if total > 0 {
			stages[i].Percentage = round2(float64(stages[i].Count) / float64(total) * 100)
		}
	}

	// Stable sorts keep encounter order for ties.
	sort.SliceStable(agents, func(a, b int) bool { return agents[a].Total > agents[b].Total })
	sort.SliceStable(stages, func(a, b int) bool { return stages[a].Count > stages[b].Count })

	return &models.QualityMetrics{Agents: agents, Stages: stages}
}
