package models

import "time"

// Filter narrows aggregation to a date range plus optional equality
// filters. The range is half-open: From inclusive, To exclusive.
// Nil/empty optional fields mean "no filter".
type Filter struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	// Agent restricts to conversations handled by this agent name.
	Agent string `json:"agent,omitempty"`

	// Finalized restricts to finalized (true) or in-progress (false)
	// conversations when set.
	Finalized *bool `json:"finalized,omitempty"`

	// Stage restricts to an exact follow-up stage when set.
	Stage *FollowUpStage `json:"stage,omitempty"`
}
