package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// outlierWindow rejects response deltas at or above one hour. Such gaps
// are session resets, not replies.
const outlierWindow = float64(3600)

// role is the parsed result of a message payload's role tag. Parse
// failures map to roleUnknown instead of erroring, so one corrupt
// historical message never blanks out a tenant's analytics.
type role int

const (
	roleUnknown role = iota
	roleUser
	roleModel
)

// parseRole extracts the role tag from an opaque message payload.
// Best-effort: malformed JSON or an unrecognized tag yields roleUnknown.
func parseRole(payload string) role {
	if !gjson.Valid(payload) {
		return roleUnknown
	}
	switch strings.ToLower(gjson.Get(payload, "role").String()) {
	case "user":
		return roleUser
	case "model", "assistant":
		return roleModel
	default:
		return roleUnknown
	}
}

// ResponseTime estimates the AI reply latency for the filtered range by
// pairing consecutive message turns per contact. A pair counts only
// when a user turn is immediately followed by a model turn; deltas
// outside (0s, 1h) are discarded as outliers. Zero surviving samples is
// a valid zero-valued result, not an error.
func (s *Service) ResponseTime(ctx context.Context, conn store.ConnectionConfig, f models.Filter) (*models.ResponseTimeStats, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("response_time", start, err)
		return nil, err
	}
	messages, err := src.Messages(ctx, f.From, f.To)
	if err != nil {
		s.observe("response_time", start, err)
		return nil, err
	}

	s.observe("response_time", start, nil)
	return estimateResponseTime(messages), nil
}

// estimateResponseTime walks messages already ordered by (phone,
// timestamp) and scans consecutive pairs within each contact's stream.
// No strict alternation is enforced: a user turn followed by two model
// turns yields one valid pair, and the model-model pair is rejected by
// the role condition alone.
func estimateResponseTime(messages []models.MessageRecord) *models.ResponseTimeStats {
	var (
		deltas    []float64
		prevPhone string
		prevRole  role
		prevAt    time.Time
		havePrev  bool
	)

	for _, msg := range messages {
		current := parseRole(msg.Payload)

		if msg.Phone != prevPhone {
			havePrev = false
			prevPhone = msg.Phone
		}

		if havePrev && prevRole == roleUser && current == roleModel {
			delta := msg.CreatedAt.Sub(prevAt).Seconds()
			if delta > 0 && delta < outlierWindow {
				deltas = append(deltas, delta)
			}
		}

		prevRole = current
		prevAt = msg.CreatedAt
		havePrev = true
	}

	if len(deltas) == 0 {
		return &models.ResponseTimeStats{AverageSeconds: 0, Formatted: "0s", SampleCount: 0}
	}

	sum := 0.0
	for _, d := range deltas {
		sum += d
	}
	average := sum / float64(len(deltas))

	return &models.ResponseTimeStats{
		AverageSeconds: round2(average),
		Formatted:      formatSeconds(average),
		SampleCount:    len(deltas),
	}
}

// formatSeconds renders an average latency for humans: "45s", "2m",
// "2m 30s", "1h", "1h 15m".
func formatSeconds(seconds float64) string {
	total := int(math.Round(seconds))

	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		m, s := total/60, total%60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		h, m := total/3600, (total%3600)/60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
