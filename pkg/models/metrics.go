package models

// Derived metric types. All of these are computed per request and never
// persisted: each is a pure function of the tenant config, the filter,
// and the external store contents at query time.

// MetricsSummary is the headline engagement funnel for a date range.
type MetricsSummary struct {
	Total          int                   `json:"total"`
	Finalized      int                   `json:"finalized"`
	InProgress     int                   `json:"in_progress"`
	ConversionRate float64               `json:"conversion_rate"`
	StageCounts    map[FollowUpStage]int `json:"stage_counts"`
}

// HeatmapCell is the activity count for one (hour-of-day, day-of-week)
// bucket. Weekday follows time.Weekday: 0=Sunday through 6=Saturday.
type HeatmapCell struct {
	Hour    int `json:"hour"`
	Weekday int `json:"weekday"`
	Value   int `json:"value"`
}

// TrendPoint is one bucket of a time series.
type TrendPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// FunnelStep is a cumulative-inclusive count of records that reached at
// least a given stage, with its percentage of the range total.
type FunnelStep struct {
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
}

// AgentQuality is the per-agent conversion breakdown.
type AgentQuality struct {
	Agent     string  `json:"agent"`
	Total     int     `json:"total"`
	Finalized int     `json:"finalized"`
	Rate      float64 `json:"rate"`
}

// StageBreakdown is the per-stage share of conversations in range.
type StageBreakdown struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QualityMetrics groups conversations by handling agent and by
// follow-up stage.
type QualityMetrics struct {
	Agents []AgentQuality   `json:"agents"`
	Stages []StageBreakdown `json:"stages"`
}

// ResponseTimeStats summarizes the estimated AI reply latency
// distribution for a date range.
type ResponseTimeStats struct {
	AverageSeconds float64 `json:"average_seconds"`
	Formatted      string  `json:"formatted"`
	SampleCount    int     `json:"sample_count"`
}

// PagedConversations is one page of the conversation list plus the
// server-side total for the full filtered set.
type PagedConversations struct {
	Items    []ConversationRecord `json:"items"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// FilterOptions is the distinct set of agent names and follow-up stages
// observed across the entire table, ignoring any date filter, so filter
// dropdowns can offer values outside the current window.
type FilterOptions struct {
	Agents []string        `json:"agents"`
	Stages []FollowUpStage `json:"stages"`
}

// SummaryVariation holds the month-over-month percentage change per
// summary metric.
type SummaryVariation struct {
	Total          float64 `json:"total"`
	Finalized      float64 `json:"finalized"`
	InProgress     float64 `json:"in_progress"`
	ConversionRate float64 `json:"conversion_rate"`
}

// MonthComparison holds summaries for the current and previous calendar
// month plus the variation between them.
type MonthComparison struct {
	Current   *MetricsSummary  `json:"current"`
	Previous  *MetricsSummary  `json:"previous"`
	Variation SummaryVariation `json:"variation"`
}

// HealthState is the tri-state outcome of a connectivity probe.
type HealthState string

const (
	// HealthOK means both logical tables are reachable.
	HealthOK HealthState = "ok"
	// HealthDegraded means the conversation table is reachable but the
	// message table is missing. Message-derived metrics are unavailable.
	HealthDegraded HealthState = "degraded"
	// HealthDown means the conversation table could not be probed.
	HealthDown HealthState = "down"
)

// HealthStatus is the result of probing the tenant's store.
type HealthStatus struct {
	State  HealthState `json:"state"`
	Detail string      `json:"detail,omitempty"`
}

// Dashboard bundles the independent aggregations a dashboard load needs.
// Sections are computed concurrently; a failed section leaves its field
// zero-valued and records the error under its name in Errors, so one
// failure never blanks out the rest.
type Dashboard struct {
	Summary      *MetricsSummary    `json:"summary,omitempty"`
	Heatmap      []HeatmapCell      `json:"heatmap,omitempty"`
	DailyTrend   []TrendPoint       `json:"daily_trend,omitempty"`
	HourlyTrend  []TrendPoint       `json:"hourly_trend,omitempty"`
	Funnel       []FunnelStep       `json:"funnel,omitempty"`
	ResponseTime *ResponseTimeStats `json:"response_time,omitempty"`
	Errors       map[string]string  `json:"errors,omitempty"`
}
