package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/app"
	"github.com/flowlog/flowlog-backend/internal/handlers"
	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/services"
	"github.com/flowlog/flowlog-backend/internal/types"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&types.Project{},
		&types.Journal{},
		&types.Note{},
		&types.Tag{},
		&types.AIJob{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	log := logger.NewNop()
	cfg := app.Config{
		AppName:          "Flowlog",
		Version:          "0.1.0",
		Environment:      "test",
		CORSAllowOrigins: []string{"*"},
	}

	projectRepo := repos.NewProjectRepo(db, log)
	journalRepo := repos.NewJournalRepo(db, log)
	noteRepo := repos.NewNoteRepo(db, log)
	tagRepo := repos.NewTagRepo(db, log)
	aiJobRepo := repos.NewAIJobRepo(db, log)

	projectService := services.NewProjectService(db, log, projectRepo, journalRepo, noteRepo, aiJobRepo)
	journalService := services.NewJournalService(db, log, journalRepo, projectRepo, noteRepo, aiJobRepo)
	noteService := services.NewNoteService(db, log, noteRepo, journalRepo, tagRepo)
	tagService := services.NewTagService(db, log, tagRepo)
	aiJobService := services.NewAIJobService(db, log, aiJobRepo, journalRepo)

	return NewRouter(RouterConfig{
		Log:              log,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		SystemHandler:    handlers.NewSystemHandler(&cfg),
		ProjectHandler:   handlers.NewProjectHandler(log, projectService),
		JournalHandler:   handlers.NewJournalHandler(log, journalService),
		NoteHandler:      handlers.NewNoteHandler(log, noteService),
		TagHandler:       handlers.NewTagHandler(log, tagService),
		AIJobHandler:     handlers.NewAIJobHandler(log, aiJobService),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "healthy" {
		t.Fatalf("expected status=healthy, got %v", body["status"])
	}
	if body["app"] != "Flowlog" {
		t.Fatalf("expected app=Flowlog, got %v", body["app"])
	}
}

func TestRootEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "Welcome to Flowlog API" {
		t.Fatalf("unexpected welcome message %v", body["message"])
	}
	if body["health"] != "/health" {
		t.Fatalf("unexpected health link %v", body["health"])
	}
}

func TestProjectLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]any{"name": "research"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decode(t, rec)
	if created["success"] != true || created["message"] != "Project created successfully" {
		t.Fatalf("unexpected create envelope %v", created)
	}
	id := created["data"].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/projects/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/projects/"+id, map[string]any{
		"name":        "research",
		"description": "long-running experiments",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/projects/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/projects/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
	errBody := decode(t, rec)
	if errBody["error"] != "Not Found" {
		t.Fatalf("expected error name 'Not Found', got %v", errBody["error"])
	}
	if errBody["status_code"] != float64(http.StatusNotFound) {
		t.Fatalf("expected status_code 404, got %v", errBody["status_code"])
	}
	if errBody["path"] != "/api/v1/projects/"+id {
		t.Fatalf("expected echoed path, got %v", errBody["path"])
	}
	if errBody["request_id"] == "" || errBody["request_id"] == nil {
		t.Fatalf("expected request_id in error envelope, got %v", errBody["request_id"])
	}
}

func TestProjectCreate_MissingNameValidationError(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]any{"description": "no name"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["error"] != "ValidationError" {
		t.Fatalf("expected error name ValidationError, got %v", body["error"])
	}
	if body["details"] == nil {
		t.Fatalf("expected per-field details, got none")
	}
}

func TestProjectDuplicateNameConflict(t *testing.T) {
	router := newTestRouter(t)

	if rec := doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]any{"name": "research"}); rec.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", rec.Code)
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]any{"name": "research"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["error"] != "Conflict" {
		t.Fatalf("expected error name Conflict, got %v", body["error"])
	}
}

func TestProjectListPagination(t *testing.T) {
	router := newTestRouter(t)

	for _, name := range []string{"alpha", "beta", "gamma"} {
		if rec := doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]any{"name": name}); rec.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d", name, rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/projects?page=2&per_page=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	data := body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected 1 project on page 2, got %d", len(data))
	}
	meta := body["pagination"].(map[string]any)
	if meta["total"] != float64(3) || meta["total_pages"] != float64(2) {
		t.Fatalf("unexpected pagination meta %v", meta)
	}
	if meta["has_prev"] != true || meta["has_next"] != false {
		t.Fatalf("unexpected page neighbors %v", meta)
	}
}

func TestProjectListPerPageBoundsValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/projects?per_page=500", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for oversized per_page, got %d", rec.Code)
	}
}

func TestJournalDayWorkflow(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]any{"name": "research"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: got %d", rec.Code)
	}
	projectID := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/journals", map[string]any{
		"date":       "2024-03-01",
		"project_id": projectID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create journal: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	journalID := decode(t, rec)["data"].(map[string]any)["id"].(string)

	// Same date again is a conflict.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/journals", map[string]any{"date": "2024-03-01"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate date: expected 409, got %d", rec.Code)
	}

	for _, text := range []string{"met with advisor", "ran experiment batch"} {
		rec = doJSON(t, router, http.MethodPost, "/api/v1/notes", map[string]any{
			"text":       text,
			"journal_id": journalID,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create note: expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/journals/"+journalID+"/notes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("journal notes: expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["count"] != float64(2) {
		t.Fatalf("expected count=2, got %v", body["count"])
	}
	expected := fmt.Sprintf("Retrieved 2 note(s) for journal %s", journalID)
	if body["message"] != expected {
		t.Fatalf("expected message %q, got %v", expected, body["message"])
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/journals?date=2024-03-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered list: expected 200, got %d", rec.Code)
	}
	body = decode(t, rec)
	if body["message"] != "Journals retrieved successfully with filters: date=2024-03-01" {
		t.Fatalf("expected filter echo in message, got %v", body["message"])
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/journals/"+journalID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete journal: expected 200, got %d", rec.Code)
	}
	message := decode(t, rec)["message"].(string)
	expected = fmt.Sprintf("Journal %s deleted successfully (2 note(s) deleted)", journalID)
	if message != expected {
		t.Fatalf("expected %q, got %q", expected, message)
	}
}

func TestNoteTagAttachDetachFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/notes", map[string]any{"text": "draft"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create note: got %d", rec.Code)
	}
	noteID := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/tags", map[string]any{"name": "ideas"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tag: got %d", rec.Code)
	}
	tagID := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/notes/"+noteID+"/tags/"+tagID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("attach: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	message := decode(t, rec)["message"].(string)
	expected := fmt.Sprintf("Tag 'ideas' added to note %s", noteID)
	if message != expected {
		t.Fatalf("expected %q, got %q", expected, message)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/notes/"+noteID+"/tags/"+tagID, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second attach: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes/"+noteID+"/tags", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list tags: expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["count"] != float64(1) {
		t.Fatalf("expected count=1, got %v", body["count"])
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/notes/"+noteID+"/tags/"+tagID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detach: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/notes/"+noteID+"/tags/"+tagID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second detach: expected 404, got %d", rec.Code)
	}
}

func TestAIJobEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/journals", map[string]any{"date": "2024-03-01"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create journal: got %d", rec.Code)
	}
	journalID := decode(t, rec)["data"].(map[string]any)["id"].(string)

	// Client-supplied status is ignored; new jobs are always queued.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/ai-jobs", map[string]any{
		"journal_id": journalID,
		"model_name": "summarizer",
		"prompt":     "summarize the day",
		"status":     "success",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decode(t, rec)["data"].(map[string]any)
	if created["status"] != "queued" {
		t.Fatalf("expected queued, got %v", created["status"])
	}
	jobID := created["id"].(string)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/ai-jobs/"+jobID, map[string]any{"status": "bogus"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid status: expected 422, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/ai-jobs/"+jobID, map[string]any{"status": "processing"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/ai-jobs?status=processing", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered list: expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "AI jobs retrieved successfully with filters: status=processing" {
		t.Fatalf("expected filter echo, got %v", body["message"])
	}
	if len(body["data"].([]any)) != 1 {
		t.Fatalf("expected one processing job")
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/journals/"+journalID+"/ai-jobs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("journal jobs: expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["count"] != float64(1) {
		t.Fatalf("expected count=1, got %v", body["count"])
	}
}

func TestUnknownRouteEnvelope(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["error"] != "Not Found" {
		t.Fatalf("expected error name 'Not Found', got %v", body["error"])
	}
}

func TestInvalidUUIDParamValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/projects/not-a-uuid", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed id, got %d", rec.Code)
	}
}
