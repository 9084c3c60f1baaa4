package event

// Event names.
const (
	MessageAdded        = "conversation.message_added"
	ArtifactCreated     = "conversation.artifact_created"
	PhaseChanged        = "conversation.phase_changed"
	ParticipantActive   = "conversation.participant_activated"
	ConversationUpdated = "conversation.updated"
)

// MessageAddedEvent is emitted after a message is persisted.
type MessageAddedEvent struct {
	SessionID   string `json:"sessionId"`
	MessageID   string `json:"messageId"`
	MessageType string `json:"messageType"`
	Persona     string `json:"persona,omitempty"`
}

func (e MessageAddedEvent) EventName() string { return MessageAdded }

// ArtifactCreatedEvent is emitted after an artifact is persisted.
type ArtifactCreatedEvent struct {
	SessionID    string `json:"sessionId"`
	ArtifactID   string `json:"artifactId"`
	ArtifactType string `json:"artifactType"`
}

func (e ArtifactCreatedEvent) EventName() string { return ArtifactCreated }

// PhaseChangedEvent is emitted when a conversation moves to a new phase.
type PhaseChangedEvent struct {
	SessionID string `json:"sessionId"`
	Phase     string `json:"phase"`
}

func (e PhaseChangedEvent) EventName() string { return PhaseChanged }

// ParticipantActivatedEvent is emitted when an advisor joins the table.
type ParticipantActivatedEvent struct {
	SessionID string `json:"sessionId"`
	Persona   string `json:"persona"`
}

func (e ParticipantActivatedEvent) EventName() string { return ParticipantActive }

// ConversationUpdatedEvent is emitted on status or metadata changes.
type ConversationUpdatedEvent struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status,omitempty"`
}

func (e ConversationUpdatedEvent) EventName() string { return ConversationUpdated }
