package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/menagerie-labs/boardroom/pkg/boardroom"
	"github.com/menagerie-labs/boardroom/pkg/db"
	"github.com/menagerie-labs/boardroom/pkg/event"
	"github.com/menagerie-labs/boardroom/pkg/generator"
	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/utils"
)

// ErrArtifactTypeRequired is returned when no artifact type was given.
var ErrArtifactTypeRequired = errors.New("artifact type is required")

// ArtifactService synthesizes chart artifacts from the conversation. When
// structured generation produces nothing usable it falls back to a fixed
// dataset per artifact type, so generation never fails outright.
type ArtifactService struct {
	store   *ConversationStore
	gen     generator.Generator
	emitter *event.Emitter
	logger  *slog.Logger
}

// NewArtifactService wires the artifact generator.
func NewArtifactService(store *ConversationStore, gen generator.Generator) *ArtifactService {
	return &ArtifactService{
		store:   store,
		gen:     gen,
		emitter: event.Global(),
		logger:  utils.GetLogger(),
	}
}

// Generate synthesizes one artifact, persists it and posts the transcript
// notice.
func (s *ArtifactService) Generate(ctx context.Context, sessionID, artifactType, description string) (*models.ArtifactView, error) {
	if artifactType == "" {
		return nil, ErrArtifactTypeRequired
	}
	conv, err := s.store.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}

	strategy := conv.Strategy.AsStrategy()
	transcript := strings.Join(renderHistory(conv.Messages), "\n")

	prompt := boardroom.ComposeArtifactPrompt(artifactType, strategy, transcript, description)
	parsed, err := s.gen.GenerateJSON(ctx, &generator.Request{Prompt: prompt})
	if err != nil {
		s.logger.Warn("artifact generation call failed, using fallback",
			"session_id", sessionID, "type", artifactType, "error", err)
		parsed = nil
	}

	spec := specFromParsed(artifactType, parsed)
	if spec == nil {
		spec = fallbackArtifact(artifactType, description)
	}

	data, err := db.MarshalValue(spec.data)
	if err != nil {
		return nil, fmt.Errorf("encode artifact data: %w", err)
	}
	config, err := db.MarshalValue(spec.config)
	if err != nil {
		return nil, fmt.Errorf("encode artifact config: %w", err)
	}

	artifact, err := s.store.CreateArtifact(&db.Artifact{
		ConversationID: conv.ID,
		ArtifactType:   spec.artifactType,
		ChartType:      spec.chartType,
		Title:          spec.title,
		Description:    spec.description,
		Data:           data,
		Config:         config,
	})
	if err != nil {
		return nil, err
	}

	in := utils.EstimateTokens(prompt)
	out := utils.EstimateTokens(string(data))
	if err := s.store.AddTokenUsage(conv.ID, db.RequestTypeArtifact, "", in, out, 0); err != nil {
		s.logger.Error("failed to record artifact usage", "session_id", sessionID, "error", err)
	}

	notice := fmt.Sprintf("Generated %s: %s", spec.title, spec.description)
	noticeMsg, err := s.store.AddMessage(conv.ID, db.MessageTypeArtifactNotice, "", notice, &db.TurnMetadata{
		ArtifactID:   artifact.ID,
		ArtifactType: spec.artifactType,
		ChartType:    spec.chartType,
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(event.MessageAddedEvent{
		SessionID:   sessionID,
		MessageID:   noticeMsg.ID,
		MessageType: db.MessageTypeArtifactNotice,
	})
	s.emitter.Emit(event.ArtifactCreatedEvent{
		SessionID:    sessionID,
		ArtifactID:   artifact.ID,
		ArtifactType: spec.artifactType,
	})
	s.logger.Info("artifact created",
		"session_id", sessionID, "artifact_id", artifact.ID, "type", spec.artifactType)

	view := artifactView(artifact)
	return &view, nil
}

// List returns the artifacts of a session in creation order.
func (s *ArtifactService) List(sessionID string) ([]models.ArtifactView, error) {
	conv, err := s.store.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	views := make([]models.ArtifactView, 0, len(conv.Artifacts))
	for _, a := range conv.Artifacts {
		views = append(views, artifactView(&a))
	}
	return views, nil
}

// artifactSpec is the normalized shape persisted for one chart.
type artifactSpec struct {
	artifactType string
	chartType    string
	title        string
	description  string
	data         []map[string]any
	config       map[string]any
}

// specFromParsed validates generator output. Anything without a title and a
// non-empty data list is rejected so the caller falls back.
func specFromParsed(artifactType string, parsed map[string]any) *artifactSpec {
	if parsed == nil {
		return nil
	}
	title, _ := parsed["title"].(string)
	rawData, _ := parsed["data"].([]any)
	if title == "" || len(rawData) == 0 {
		return nil
	}

	data := make([]map[string]any, 0, len(rawData))
	for _, item := range rawData {
		point, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		data = append(data, point)
	}

	spec := &artifactSpec{
		artifactType: artifactType,
		title:        title,
		data:         data,
	}
	if t, ok := parsed["type"].(string); ok && t != "" {
		spec.artifactType = t
	}
	spec.chartType, _ = parsed["chartType"].(string)
	spec.description, _ = parsed["description"].(string)
	spec.config, _ = parsed["config"].(map[string]any)
	return spec
}

// fallbackArtifact produces the fixed per-type dataset.
func fallbackArtifact(artifactType, description string) *artifactSpec {
	const (
		title = "Generated Visualization"
		desc  = "Auto-generated from conversation context"
	)

	switch artifactType {
	case boardroom.ArtifactFinancialChart:
		data := make([]map[string]any, 0, 6)
		for i := 0; i < 6; i++ {
			data = append(data, map[string]any{
				"name":     fmt.Sprintf("Month %d", i+1),
				"revenue":  1000 + i*250,
				"expenses": 800 + i*150,
				"profit":   200 + i*100,
			})
		}
		return &artifactSpec{
			artifactType: boardroom.ArtifactFinancialChart,
			chartType:    db.ChartTypeLine,
			title:        title,
			description:  desc,
			data:         data,
			config: map[string]any{
				"xAxisKey":  "name",
				"yAxisKeys": []string{"revenue", "expenses", "profit"},
				"colors":    []string{"#10B981", "#EF4444", "#3B82F6"},
			},
		}

	case boardroom.ArtifactMarketAnalysis:
		return &artifactSpec{
			artifactType: boardroom.ArtifactMarketAnalysis,
			chartType:    db.ChartTypePie,
			title:        title,
			description:  desc,
			data: []map[string]any{
				{"name": "Segment A", "value": 45, "percentage": 45},
				{"name": "Segment B", "value": 30, "percentage": 30},
				{"name": "Segment C", "value": 25, "percentage": 25},
			},
			config: map[string]any{
				"valueKey": "value",
				"nameKey":  "name",
				"colors":   []string{"#8B5CF6", "#06B6D4", "#84CC16"},
			},
		}

	case boardroom.ArtifactTimeline:
		return &artifactSpec{
			artifactType: boardroom.ArtifactTimeline,
			chartType:    db.ChartTypeTimeline,
			title:        title,
			description:  desc,
			data: []map[string]any{
				{"name": "Phase 1", "start": "2025-01-01", "end": "2025-02-15", "status": "completed", "description": "Discovery"},
				{"name": "Phase 2", "start": "2025-02-16", "end": "2025-04-01", "status": "in-progress", "description": "MVP Build"},
				{"name": "Phase 3", "start": "2025-04-02", "end": "2025-06-01", "status": "planned", "description": "Pilot & Iterate"},
			},
			config: map[string]any{
				"timeFormat": "YYYY-MM-DD",
				"statusColors": map[string]string{
					"planned":     "#94A3B8",
					"in-progress": "#3B82F6",
					"completed":   "#10B981",
				},
			},
		}

	case boardroom.ArtifactPDFAnalysis:
		return &artifactSpec{
			artifactType: boardroom.ArtifactPDFAnalysis,
			chartType:    db.ChartTypeBar,
			title:        title,
			description:  desc,
			data: []map[string]any{
				{"name": "Metric A", "value": 12},
				{"name": "Metric B", "value": 18},
				{"name": "Metric C", "value": 9},
			},
			config: map[string]any{
				"xAxisKey": "name",
				"yAxisKey": "value",
				"colors":   []string{"#8B5CF6", "#06B6D4", "#10B981"},
			},
		}

	default:
		if description == "" {
			description = desc
		}
		return &artifactSpec{
			artifactType: boardroom.ArtifactGenericChart,
			chartType:    db.ChartTypeBar,
			title:        title,
			description:  description,
			data: []map[string]any{
				{"name": "A", "value": 10},
				{"name": "B", "value": 15},
				{"name": "C", "value": 7},
			},
			config: map[string]any{
				"xAxisKey": "name",
				"yAxisKey": "value",
				"colors":   []string{"#8B5CF6", "#06B6D4", "#10B981", "#F59E0B"},
			},
		}
	}
}

func artifactView(a *db.Artifact) models.ArtifactView {
	view := models.ArtifactView{
		ID:           a.ID,
		ArtifactType: a.ArtifactType,
		ChartType:    a.ChartType,
		Title:        a.Title,
		Description:  a.Description,
		CreatedAt:    a.CreatedAt,
	}
	if len(a.Data) > 0 {
		var data any
		if json.Unmarshal(a.Data, &data) == nil {
			view.Data = data
		}
	}
	if len(a.Config) > 0 {
		var config any
		if json.Unmarshal(a.Config, &config) == nil {
			view.Config = config
		}
	}
	return view
}
