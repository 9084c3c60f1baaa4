// Database models for the token-usage ledger
package db

import "time"

// TokenUsage is one append-only ledger entry per generation call. It is only
// ever aggregated, never read back row by row.
type TokenUsage struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string    `json:"conversation_id" gorm:"index;size:36;not null"`
	RequestType    string    `json:"request_type" gorm:"size:40;not null"`
	Persona        string    `json:"persona,omitempty" gorm:"size:20"`
	InputTokens    int       `json:"input_tokens"`
	OutputTokens   int       `json:"output_tokens"`
	TotalTokens    int       `json:"total_tokens"`
	Cost           float64   `json:"cost"`
	CreatedAt      time.Time `json:"created_at"`
}

func (TokenUsage) TableName() string {
	return "token_usage"
}

// Request types recorded in the ledger
const (
	RequestTypeInitialGreeting = "initial_greeting"
	RequestTypeAdvisorIntro    = "advisor_introduction"
	RequestTypeMessage         = "message_response"
	RequestTypeSummary         = "summary"
	RequestTypeArtifact        = "artifact"
)
