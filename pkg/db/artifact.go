// Database models for generated chart artifacts
package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Artifact is one generated chart. Created exactly once per detected
// opportunity, never mutated.
type Artifact struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string    `json:"conversation_id" gorm:"index;size:36;not null"`
	ArtifactType   string    `json:"artifact_type" gorm:"size:30;not null"`
	ChartType      string    `json:"chart_type,omitempty" gorm:"size:20"`
	Title          string    `json:"title" gorm:"size:200"`
	Description    string    `json:"description,omitempty" gorm:"size:500"`
	Data           JSONValue `json:"data,omitempty" gorm:"type:text"`
	Config         JSONValue `json:"config,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Artifact) TableName() string {
	return "artifacts"
}

// Artifact types
const (
	ArtifactFinancialChart = "financial_chart"
	ArtifactMarketAnalysis = "market_analysis"
	ArtifactTimeline       = "timeline"
	ArtifactPDFAnalysis    = "pdf_analysis_chart"
	ArtifactGenericChart   = "generic_chart"
)

// Chart sub-types
const (
	ChartTypeLine     = "line"
	ChartTypePie      = "pie"
	ChartTypeBar      = "bar"
	ChartTypeTimeline = "timeline"
)

// JSONValue stores arbitrary JSON (object or array) in a text column.
type JSONValue []byte

// Value implements driver.Valuer for database storage
func (j JSONValue) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	if !json.Valid(j) {
		return nil, errors.New("invalid json value")
	}
	return string(j), nil
}

// Scan implements sql.Scanner for database retrieval
func (j *JSONValue) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = []byte(v)
	}
	return nil
}

// MarshalJSON renders the raw payload as-is.
func (j JSONValue) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON keeps the raw payload as-is.
func (j *JSONValue) UnmarshalJSON(data []byte) error {
	*j = append((*j)[:0], data...)
	return nil
}

// MarshalValue encodes v into a JSONValue.
func MarshalValue(v any) (JSONValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return JSONValue(b), nil
}
