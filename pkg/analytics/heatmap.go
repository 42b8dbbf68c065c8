package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rafaelruch/agendapro-analytics/pkg/models"
	"github.com/rafaelruch/agendapro-analytics/pkg/store"
)

// Heatmap buckets conversation activity into a weekday-by-hour matrix.
// Only cells with activity are emitted. Hours are taken from each
// timestamp's own timezone representation; no normalization is applied.
func (s *Service) Heatmap(ctx context.Context, conn store.ConnectionConfig, f models.Filter) ([]models.HeatmapCell, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("heatmap", start, err)
		return nil, err
	}
	records, err := src.Conversations(ctx, f)
	if err != nil {
		s.observe("heatmap", start, err)
		return nil, err
	}

	s.observe("heatmap", start, nil)
	return buildHeatmap(records), nil
}

// DailyTrend buckets conversation activity by calendar date. One point
// per observed date, ascending; gap dates are not synthesized.
func (s *Service) DailyTrend(ctx context.Context, conn store.ConnectionConfig, f models.Filter) ([]models.TrendPoint, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("daily_trend", start, err)
		return nil, err
	}
	records, err := src.Conversations(ctx, f)
	if err != nil {
		s.observe("daily_trend", start, err)
		return nil, err
	}

	s.observe("daily_trend", start, nil)
	return buildDailyTrend(records), nil
}

// HourlyTrend buckets conversation activity by hour of day. Always
// emits exactly 24 points, zero-filled for quiet hours.
func (s *Service) HourlyTrend(ctx context.Context, conn store.ConnectionConfig, f models.Filter) ([]models.TrendPoint, error) {
	start := time.Now()

	src, err := s.open(ctx, conn)
	if err != nil {
		s.observe("hourly_trend", start, err)
		return nil, err
	}
	records, err := src.Conversations(ctx, f)
	if err != nil {
		s.observe("hourly_trend", start, err)
		return nil, err
	}

	s.observe("hourly_trend", start, nil)
	return buildHourlyTrend(records), nil
}

func buildHeatmap(records []models.ConversationRecord) []models.HeatmapCell {
	var counts [7][24]int
	for _, rec := range records {
		counts[int(rec.CreatedAt.Weekday())][rec.CreatedAt.Hour()]++
	}

	var cells []models.HeatmapCell
	for weekday := 0; weekday < 7; weekday++ {
		for hour := 0; hour < 24; hour++ {
			if counts[weekday][hour] > 0 {
				cells = append(cells, models.HeatmapCell{
					Hour:    hour,
					Weekday: weekday,
					Value:   counts[weekday][hour],
				})
			}
		}
	}
	return cells
}

func buildDailyTrend(records []models.ConversationRecord) []models.TrendPoint {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.CreatedAt.Format(time.DateOnly)]++
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]models.TrendPoint, 0, len(dates))
	for _, date := range dates {
		points = append(points, models.TrendPoint{Label: date, Value: counts[date]})
	}
	return points
}

func buildHourlyTrend(records []models.ConversationRecord) []models.TrendPoint {
	var counts [24]int
	for _, rec := range records {
		counts[rec.CreatedAt.Hour()]++
	}

	points := make([]models.TrendPoint, 24)
	for hour := 0; hour < 24; hour++ {
		points[hour] = models.TrendPoint{
			Label: fmt.Sprintf("%02d:00", hour),
			Value: counts[hour],
		}
	}
	return points
}
