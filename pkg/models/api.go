package models

import "time"

// ========== Requests ==========

// StartConversationRequest opens a new board session.
type StartConversationRequest struct {
	Strategy BusinessStrategy `json:"strategy"`
}

// MessageRequest carries one user message into an existing session.
type MessageRequest struct {
	Message string `json:"message"`
}

// UpdateConversationRequest supports completing a session or overriding the
// phase. Both fields are optional.
type UpdateConversationRequest struct {
	Status *string `json:"status,omitempty"`
	Phase  *string `json:"phase,omitempty"`
}

// SimulateRequest runs the one-shot boardroom round.
type SimulateRequest struct {
	Strategy BusinessStrategy `json:"strategy"`
}

// GenerateArtifactRequest asks for a specific chart to be synthesized.
type GenerateArtifactRequest struct {
	ArtifactType string `json:"artifactType"`
	Description  string `json:"description,omitempty"`
}

// ========== Views ==========

// TokenCounts is the per-turn token accounting attached to message metadata.
type TokenCounts struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// MessageView is one transcript entry as returned to clients.
type MessageView struct {
	ID                string       `json:"id"`
	MessageType       string       `json:"messageType"`
	Persona           string       `json:"persona,omitempty"`
	Content           string       `json:"content"`
	Name              string       `json:"name,omitempty"`
	Title             string       `json:"title,omitempty"`
	AnimalSpirit      string       `json:"animalSpirit,omitempty"`
	Mantra            string       `json:"mantra,omitempty"`
	IsNewIntroduction bool         `json:"isNewIntroduction,omitempty"`
	Provider          string       `json:"providerUsed,omitempty"`
	Tokens            *TokenCounts `json:"tokens,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// ArtifactView is one generated chart as returned to clients.
type ArtifactView struct {
	ID           string    `json:"id"`
	ArtifactType string    `json:"artifactType"`
	ChartType    string    `json:"chartType,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Data         any       `json:"data,omitempty"`
	Config       any       `json:"config,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ConversationStats aggregates the token-usage ledger and counts.
type ConversationStats struct {
	MessageCount  int     `json:"messageCount"`
	ArtifactCount int     `json:"artifactCount"`
	TotalTokens   int     `json:"totalTokens"`
	TotalCost     float64 `json:"totalCost"`
}

// ConversationView is the full session state returned by the read endpoints.
type ConversationView struct {
	SessionID   string             `json:"sessionId"`
	ProjectName string             `json:"projectName,omitempty"`
	Strategy    *BusinessStrategy  `json:"strategy,omitempty"`
	Phase       string             `json:"phase"`
	Status      string             `json:"status"`
	Messages    []MessageView      `json:"messages"`
	Artifacts   []ArtifactView     `json:"artifacts"`
	Stats       *ConversationStats `json:"stats,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// RecentConversation is one row of the recent-sessions listing.
type RecentConversation struct {
	SessionID     string    `json:"sessionId"`
	ProjectName   string    `json:"projectName,omitempty"`
	Phase         string    `json:"phase"`
	Status        string    `json:"status"`
	MessageCount  int       `json:"messageCount"`
	ArtifactCount int       `json:"artifactCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ExecutiveSummary is the synthesized board report. Fallback marks the fixed
// generic summary used when structured generation fails.
type ExecutiveSummary struct {
	OverallAssessment string   `json:"overallAssessment"`
	KeyRisks          []string `json:"keyRisks"`
	KeyOpportunities  []string `json:"keyOpportunities"`
	Recommendations   []string `json:"recommendations"`
	Fallback          bool     `json:"fallback,omitempty"`
}

// MemberFeedback is one persona's response in the one-shot simulation round.
type MemberFeedback struct {
	Persona      string   `json:"persona"`
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	AnimalSpirit string   `json:"animalSpirit"`
	Response     string   `json:"response"`
	Assessment   string   `json:"assessment"`
	KeyQuestions []string `json:"keyQuestions"`
	Provider     string   `json:"providerUsed,omitempty"`
}

// SimulateResponse bundles the simulation round with its summary.
type SimulateResponse struct {
	Responses []MemberFeedback  `json:"responses"`
	Summary   *ExecutiveSummary `json:"summary"`
}

// ========== Streaming ==========

// TurnChunk is one unit of the streamed response for a user message. Persona
// identity fields ride on every chunk of a turn; TurnComplete marks the end
// of one persona's turn (several turns can share one stream when advisors are
// queued).
type TurnChunk struct {
	Content           string `json:"content,omitempty"`
	Persona           string `json:"persona"`
	Name              string `json:"name"`
	Title             string `json:"title"`
	IsNewIntroduction bool   `json:"isNewIntroduction,omitempty"`
	Provider          string `json:"providerUsed,omitempty"`
	TurnComplete      bool   `json:"turnComplete,omitempty"`
}
