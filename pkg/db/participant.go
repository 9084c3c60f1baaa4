// Database models for advisor activation records
package db

import "time"

// Participant records that a non-finance advisor has been activated in a
// conversation. The finance advisor is implicitly always active and never
// has a row here. Rows are upserted, never deleted.
type Participant struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string    `json:"conversation_id" gorm:"index:idx_participant_conv_persona,unique;size:36;not null"`
	Persona        string    `json:"persona" gorm:"index:idx_participant_conv_persona,unique;size:20;not null"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	LastActivity   time.Time `json:"last_activity"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Participant) TableName() string {
	return "participants"
}
