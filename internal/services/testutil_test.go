package services

import (
	"errors"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/apierr"
	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/types"
)

type testEnv struct {
	db       *gorm.DB
	projects ProjectService
	journals JournalService
	notes    NoteService
	tags     TagService
	aiJobs   AIJobService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying db: %v", err)
	}
	// In-memory sqlite is per-connection; keep the pool to one.
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
	projectRepo := repos.NewProjectRepo(db, log)
	journalRepo := repos.NewJournalRepo(db, log)
	noteRepo := repos.NewNoteRepo(db, log)
	tagRepo := repos.NewTagRepo(db, log)
	aiJobRepo := repos.NewAIJobRepo(db, log)

	return &testEnv{
		db:       db,
		projects: NewProjectService(db, log, projectRepo, journalRepo, noteRepo, aiJobRepo),
		journals: NewJournalService(db, log, journalRepo, projectRepo, noteRepo, aiJobRepo),
		notes:    NewNoteService(db, log, noteRepo, journalRepo, tagRepo),
		tags:     NewTagService(db, log, tagRepo),
		aiJobs:   NewAIJobService(db, log, aiJobRepo, journalRepo),
	}
}

func mustDate(t *testing.T, value string) strfmt.Date {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return strfmt.Date(parsed)
}

func wantStatus(t *testing.T, err error, status int) *apierr.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *apierr.Error, got %T: %v", err, err)
	}
	if apiErr.Status != status {
		t.Fatalf("expected status %d, got %d (%v)", status, apiErr.Status, err)
	}
	return apiErr
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
