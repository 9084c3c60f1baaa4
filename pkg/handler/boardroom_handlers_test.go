package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/menagerie-labs/boardroom/pkg/db"
	"github.com/menagerie-labs/boardroom/pkg/extract"
	"github.com/menagerie-labs/boardroom/pkg/generator"
	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(filepath.Join(t.TempDir(), "boardroom.db"))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}

	gen := generator.NewLocal()
	store := service.NewConversationStore(gdb)
	artifacts := service.NewArtifactService(store, gen)
	boardroom := service.NewBoardroomService(store, gen, extract.NewTextExtractor(), artifacts)
	summaries := service.NewSummaryService(store, gen)
	simulation := service.NewSimulationService(gen)

	r := gin.New()
	NewBoardroomHandler(boardroom, artifacts, summaries, simulation).RegisterRoutes(r.Group("/api"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
		}
	}
	return w, parsed
}

func TestStartAndGetConversation(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/conversation/start",
		`{"strategy":{"projectName":"Acme","oneSentenceSummary":"Subscription boxes for cat owners"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d, body %s", w.Code, w.Body.String())
	}
	conversation, _ := body["conversation"].(map[string]any)
	sessionID, _ := conversation["sessionId"].(string)
	if body["success"] != true || sessionID == "" {
		t.Fatalf("start response = %v", body)
	}
	messages, _ := conversation["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("opening transcript = %v", conversation["messages"])
	}

	w, body = doJSON(t, r, http.MethodGet, "/api/conversation/"+sessionID, "")
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("get status = %d, body %s", w.Code, w.Body.String())
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/conversation/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown session status = %d, want 404", w.Code)
	}
}

func TestUpdateConversationRejectsUnknownStatus(t *testing.T) {
	r := newTestRouter(t)

	_, body := doJSON(t, r, http.MethodPost, "/api/conversation/start",
		`{"strategy":{"projectName":"Acme"}}`)
	conversation, _ := body["conversation"].(map[string]any)
	sessionID, _ := conversation["sessionId"].(string)

	w, _ := doJSON(t, r, http.MethodPatch, "/api/conversation/"+sessionID, `{"status":"archived"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status update = %d, want 400", w.Code)
	}
}

func TestSimulateEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/simulate-boardroom",
		`{"strategy":{"projectName":"Acme","oneSentenceSummary":"Subscription boxes for cat owners"}}`)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("simulate status = %d, body %s", w.Code, w.Body.String())
	}
	responses, _ := body["responses"].([]any)
	if len(responses) != 3 {
		t.Fatalf("responses = %v, want one per advisor", body["responses"])
	}
	if sessionID, _ := body["sessionId"].(string); sessionID == "" {
		t.Fatalf("simulate response missing sessionId: %v", body)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/simulate-boardroom", `{"strategy":{"projectName":"Acme"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("incomplete strategy status = %d, want 400", w.Code)
	}
}

func TestResolveFileType(t *testing.T) {
	cases := []struct {
		contentType string
		filename    string
		want        string
		ok          bool
	}{
		{"application/pdf", "deck.bin", models.FileTypePDF, true},
		{"text/markdown; charset=utf-8", "notes.bin", models.FileTypeMarkdown, true},
		{"text/plain", "notes.bin", models.FileTypeText, true},
		{"application/octet-stream", "deck.pdf", models.FileTypePDF, true},
		{"", "NOTES.MD", models.FileTypeMarkdown, true},
		{"", "plan.markdown", models.FileTypeMarkdown, true},
		{"", "notes.txt", models.FileTypeText, true},
		{"image/png", "logo.png", "", false},
	}
	for _, tc := range cases {
		got, ok := resolveFileType(tc.contentType, tc.filename)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("resolveFileType(%q, %q) = %q, %v, want %q, %v",
				tc.contentType, tc.filename, got, ok, tc.want, tc.ok)
		}
	}
}
