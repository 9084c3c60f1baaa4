// Database models for transcript messages
package db

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Message is one transcript entry. Messages are append-only: once written
// they are only ever read back.
type Message struct {
	ID             string        `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string        `json:"conversation_id" gorm:"index;size:36;not null"`
	MessageType    string        `json:"message_type" gorm:"size:20;not null"`
	Persona        string        `json:"persona,omitempty" gorm:"size:20;index"`
	Content        string        `json:"content" gorm:"type:text"`
	Metadata       *TurnMetadata `json:"metadata,omitempty" gorm:"type:text"` // JSON
	CreatedAt      time.Time     `json:"created_at"`
}

func (*Message) TableName() string {
	return "messages"
}

// Message types
const (
	MessageTypeSystem         = "system"
	MessageTypeUser           = "user"
	MessageTypePersonaTurn    = "persona_turn"
	MessageTypeArtifactNotice = "artifact_notice"
)

// TokenCounts is the token accounting embedded in turn metadata.
type TokenCounts struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// TurnMetadata is the structured metadata of a persona turn (display fields,
// introduction flag, provider, token counts) or of an artifact notice.
type TurnMetadata struct {
	Name              string      `json:"name,omitempty"`
	Title             string      `json:"title,omitempty"`
	AnimalSpirit      string      `json:"animalSpirit,omitempty"`
	Mantra            string      `json:"mantra,omitempty"`
	IsNewIntroduction bool        `json:"isNewIntroduction,omitempty"`
	Provider          string      `json:"providerUsed,omitempty"`
	Tokens            TokenCounts `json:"tokens,omitempty"`

	// Artifact notice fields
	ArtifactID   string `json:"artifactId,omitempty"`
	ArtifactType string `json:"artifactType,omitempty"`
	ChartType    string `json:"chartType,omitempty"`
}

// Value implements driver.Valuer for database storage
func (m *TurnMetadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *TurnMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, m)
}
