package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/menagerie-labs/boardroom/pkg/db"
	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/utils"
)

// ErrConversationNotFound is returned when a session id resolves to nothing.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationStore is the persistence service for board sessions. All writes
// go through it; the orchestrator never touches gorm directly.
type ConversationStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewConversationStore creates the store.
func NewConversationStore(gdb *gorm.DB) *ConversationStore {
	return &ConversationStore{
		db:     gdb,
		logger: utils.GetLogger(),
	}
}

// CreateConversation opens a new session row.
func (s *ConversationStore) CreateConversation(sessionID, projectName string, strategy *models.BusinessStrategy) (*db.Conversation, error) {
	conv := &db.Conversation{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		ProjectName: projectName,
		Strategy:    db.FromStrategy(strategy),
		Phase:       db.PhaseSoloAdvisor,
		Status:      db.ConversationStatusActive,
	}
	if err := s.db.Create(conv).Error; err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	s.logger.Info("conversation created", "session_id", sessionID, "project", projectName)
	return conv, nil
}

// GetBySessionID loads a conversation with its messages, participants and
// artifacts, each in creation order.
func (s *ConversationStore) GetBySessionID(sessionID string) (*db.Conversation, error) {
	var conv db.Conversation
	err := s.db.
		Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Artifacts", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Where("session_id = ?", sessionID).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", sessionID, err)
	}
	return &conv, nil
}

// UpdateStrategy replaces the stored strategy, e.g. after a file upload.
func (s *ConversationStore) UpdateStrategy(conversationID string, strategy *models.BusinessStrategy) error {
	err := s.db.Model(&db.Conversation{}).
		Where("id = ?", conversationID).
		Update("strategy", db.FromStrategy(strategy)).Error
	if err != nil {
		return fmt.Errorf("update strategy: %w", err)
	}
	return nil
}

// AddMessage appends one transcript entry.
func (s *ConversationStore) AddMessage(conversationID, messageType, personaID, content string, meta *db.TurnMetadata) (*db.Message, error) {
	msg := &db.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		MessageType:    messageType,
		Persona:        personaID,
		Content:        content,
		Metadata:       meta,
	}
	if err := s.db.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}
	// Keep the conversation's updated_at fresh for the recent listing
	s.db.Model(&db.Conversation{}).Where("id = ?", conversationID).
		Update("updated_at", time.Now())
	return msg, nil
}

// UpdatePhase moves the conversation to a new phase.
func (s *ConversationStore) UpdatePhase(conversationID, phase string) error {
	err := s.db.Model(&db.Conversation{}).
		Where("id = ?", conversationID).
		Update("phase", phase).Error
	if err != nil {
		return fmt.Errorf("update phase: %w", err)
	}
	s.logger.Info("phase updated", "conversation_id", conversationID, "phase", phase)
	return nil
}

// UpdateStatus sets the conversation status (active, completed).
func (s *ConversationStore) UpdateStatus(conversationID, status string) error {
	err := s.db.Model(&db.Conversation{}).
		Where("id = ?", conversationID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// ActivateParticipant upserts the activation row for a persona. Activating an
// already-active persona only refreshes last_activity.
func (s *ConversationStore) ActivateParticipant(conversationID, personaID string) error {
	now := time.Now()
	p := &db.Participant{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Persona:        personaID,
		IsActive:       true,
		LastActivity:   now,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}, {Name: "persona"}},
		DoUpdates: clause.Assignments(map[string]any{
			"is_active":     true,
			"last_activity": now,
		}),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("activate participant %s: %w", personaID, err)
	}
	return nil
}

// ActivePersonas returns the activated persona ids for a conversation.
func (s *ConversationStore) ActivePersonas(conversationID string) ([]string, error) {
	var personas []string
	err := s.db.Model(&db.Participant{}).
		Where("conversation_id = ? AND is_active = ?", conversationID, true).
		Order("created_at ASC").
		Pluck("persona", &personas).Error
	if err != nil {
		return nil, fmt.Errorf("list active participants: %w", err)
	}
	return personas, nil
}

// AddTokenUsage appends one ledger entry.
func (s *ConversationStore) AddTokenUsage(conversationID, requestType, personaID string, inputTokens, outputTokens int, cost float64) error {
	usage := &db.TokenUsage{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		RequestType:    requestType,
		Persona:        personaID,
		InputTokens:    inputTokens,
		OutputTokens:   outputTokens,
		TotalTokens:    inputTokens + outputTokens,
		Cost:           cost,
	}
	if err := s.db.Create(usage).Error; err != nil {
		return fmt.Errorf("add token usage: %w", err)
	}
	return nil
}

// CreateArtifact persists one generated chart.
func (s *ConversationStore) CreateArtifact(a *db.Artifact) (*db.Artifact, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := s.db.Create(a).Error; err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}
	return a, nil
}

// CountUserMessages counts the user messages in a conversation.
func (s *ConversationStore) CountUserMessages(conversationID string) (int, error) {
	var count int64
	err := s.db.Model(&db.Message{}).
		Where("conversation_id = ? AND message_type = ?", conversationID, db.MessageTypeUser).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count user messages: %w", err)
	}
	return int(count), nil
}

// Stats aggregates message/artifact counts and the token-usage ledger.
func (s *ConversationStore) Stats(conversationID string) (*models.ConversationStats, error) {
	stats := &models.ConversationStats{}

	var messageCount int64
	if err := s.db.Model(&db.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&messageCount).Error; err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	stats.MessageCount = int(messageCount)

	var artifactCount int64
	if err := s.db.Model(&db.Artifact{}).
		Where("conversation_id = ?", conversationID).
		Count(&artifactCount).Error; err != nil {
		return nil, fmt.Errorf("count artifacts: %w", err)
	}
	stats.ArtifactCount = int(artifactCount)

	var totals struct {
		TotalTokens int
		TotalCost   float64
	}
	err := s.db.Model(&db.TokenUsage{}).
		Select("COALESCE(SUM(total_tokens), 0) AS total_tokens, COALESCE(SUM(cost), 0) AS total_cost").
		Where("conversation_id = ?", conversationID).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate token usage: %w", err)
	}
	stats.TotalTokens = totals.TotalTokens
	stats.TotalCost = totals.TotalCost

	return stats, nil
}

// Recent lists the most recently updated conversations, newest first.
func (s *ConversationStore) Recent(limit int) ([]models.RecentConversation, error) {
	if limit <= 0 {
		limit = 20
	}
	var convs []db.Conversation
	if err := s.db.Order("updated_at DESC").Limit(limit).Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("list recent conversations: %w", err)
	}

	out := make([]models.RecentConversation, 0, len(convs))
	for _, c := range convs {
		var messageCount, artifactCount int64
		s.db.Model(&db.Message{}).Where("conversation_id = ?", c.ID).Count(&messageCount)
		s.db.Model(&db.Artifact{}).Where("conversation_id = ?", c.ID).Count(&artifactCount)
		out = append(out, models.RecentConversation{
			SessionID:     c.SessionID,
			ProjectName:   c.ProjectName,
			Phase:         c.Phase,
			Status:        c.Status,
			MessageCount:  int(messageCount),
			ArtifactCount: int(artifactCount),
			UpdatedAt:     c.UpdatedAt,
		})
	}
	return out, nil
}
