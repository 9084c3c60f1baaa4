// Database models for board conversations
package db

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/menagerie-labs/boardroom/pkg/models"
)

// Conversation represents one advisory board session.
type Conversation struct {
	ID          string        `json:"id" gorm:"primaryKey;size:36"`
	SessionID   string        `json:"session_id" gorm:"uniqueIndex;size:64;not null"`
	ProjectName string        `json:"project_name,omitempty" gorm:"size:200"`
	Strategy    *StrategyJSON `json:"strategy,omitempty" gorm:"type:text"`
	Phase       string        `json:"phase" gorm:"size:20;default:'solo_advisor'"`
	Status      string        `json:"status" gorm:"size:20;default:'active'"` // active, completed
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Messages     []Message     `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:ConversationID"`
	Artifacts    []Artifact    `json:"artifacts,omitempty" gorm:"foreignKey:ConversationID"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Conversation phases
const (
	PhaseSoloAdvisor  = "solo_advisor"
	PhaseMultiAdvisor = "multi_advisor"
	PhaseCompleted    = "completed"
)

// Conversation status
const (
	ConversationStatusActive    = "active"
	ConversationStatusCompleted = "completed"
)

// StrategyJSON stores the business strategy as a JSON text column.
type StrategyJSON models.BusinessStrategy

// Value implements driver.Valuer for database storage
func (s *StrategyJSON) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for database retrieval
func (s *StrategyJSON) Scan(value interface{}) error {
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
	return json.Unmarshal(bytes, s)
}

// AsStrategy converts the stored column back to the API type.
func (s *StrategyJSON) AsStrategy() *models.BusinessStrategy {
	if s == nil {
		return nil
	}
	out := models.BusinessStrategy(*s)
	return &out
}

// FromStrategy wraps an API strategy for storage.
func FromStrategy(s *models.BusinessStrategy) *StrategyJSON {
	if s == nil {
		return nil
	}
	out := StrategyJSON(*s)
	return &out
}
