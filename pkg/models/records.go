package models

import (
	"time"

	"github.com/google/uuid"
)

// FollowUpStage is an ordered milestone marking automated re-engagement
// attempts before a conversation is finalized. The empty value means no
// follow-up has been sent yet.
type FollowUpStage string

const (
	StageNone FollowUpStage = ""
	Stage1    FollowUpStage = "stage_1"
	Stage2    FollowUpStage = "stage_2"
	Stage3    FollowUpStage = "stage_3"
	Stage4    FollowUpStage = "stage_4"
)

// Stages lists the four follow-up stages in order.
var Stages = []FollowUpStage{Stage1, Stage2, Stage3, Stage4}

// Rank returns the stage's position in the follow-up sequence.
// StageNone and unrecognized values rank 0.
func (s FollowUpStage) Rank() int {
	switch s {
	case Stage1:
		return 1
	case Stage2:
		return 2
	case Stage3:
		return 3
	case Stage4:
		return 4
	default:
		return 0
	}
}

// ConversationRecord is one logged customer engagement with the
// automation agent. Records are created and mutated by the external
// automation system; this engine only reads them.
type ConversationRecord struct {
	ID        uuid.UUID     `json:"id"`
	Phone     string        `json:"phone"`
	Name      string        `json:"name"`
	AgentName string        `json:"agent_name"`
	Finalized bool          `json:"finalized"`
	Stage     FollowUpStage `json:"followup_stage"`
	CreatedAt time.Time     `json:"created_at"`
}

// MessageRecord is one raw turn within a conversation. Messages join to
// conversations by phone, not by conversation id. The payload is opaque
// JSON carrying an embedded role tag plus text.
type MessageRecord struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
