package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/flowlog/flowlog-backend/internal/types"
)

func TestProjectCreate_DuplicateNameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.projects.Create(ctx, "research", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := env.projects.Create(ctx, "research", nil)
	wantStatus(t, err, http.StatusConflict)
}

func TestProjectGet_UnknownIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.projects.Get(context.Background(), uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}

func TestProjectUpdate_RenameToOwnNameAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	desc := "journaling backend"
	project, err := env.projects.Create(ctx, "research", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := env.projects.Update(ctx, project.ID, "research", &desc)
	if err != nil {
		t.Fatalf("update with unchanged name: %v", err)
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Fatalf("expected description to be replaced, got %v", updated.Description)
	}
}

func TestProjectUpdate_RenameToTakenNameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.projects.Create(ctx, "research", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := env.projects.Create(ctx, "writing", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = env.projects.Update(ctx, second.ID, "research", nil)
	wantStatus(t, err, http.StatusConflict)
}

func TestProjectUpdate_OmittedDescriptionCleared(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	desc := "temporary"
	project, err := env.projects.Create(ctx, "research", &desc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := env.projects.Update(ctx, project.ID, "research", nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != nil {
		t.Fatalf("expected description cleared on full replacement, got %q", *updated.Description)
	}
}

func TestProjectDelete_CascadesJournalsNotesAndJobs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	project, err := env.projects.Create(ctx, "research", nil)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	journal, err := env.journals.Create(ctx, mustDate(t, "2024-03-01"), &project.ID)
	if err != nil {
		t.Fatalf("create journal: %v", err)
	}
	if _, err := env.notes.Create(ctx, "first", nil, &journal.ID); err != nil {
		t.Fatalf("create note: %v", err)
	}
	if _, err := env.aiJobs.Create(ctx, journal.ID, "summarizer", nil, "summarize"); err != nil {
		t.Fatalf("create ai job: %v", err)
	}

	message, err := env.projects.Delete(ctx, project.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(message, "cascade deleted 1 journal(s)") {
		t.Fatalf("expected cascade count in message, got %q", message)
	}

	if n := countRows(t, env.db, &types.Journal{}); n != 0 {
		t.Fatalf("expected journals gone, found %d", n)
	}
	if n := countRows(t, env.db, &types.Note{}); n != 0 {
		t.Fatalf("expected notes gone, found %d", n)
	}
	if n := countRows(t, env.db, &types.AIJob{}); n != 0 {
		t.Fatalf("expected ai jobs gone, found %d", n)
	}
}

func TestProjectDelete_NoJournalsPlainMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	project, err := env.projects.Create(ctx, "research", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	message, err := env.projects.Delete(ctx, project.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if strings.Contains(message, "cascade") {
		t.Fatalf("expected no cascade suffix for empty project, got %q", message)
	}
}

func TestProjectJournals_UnknownProjectNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.projects.Journals(context.Background(), uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}

func TestProjectList_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta", "gamma"} {
		if _, err := env.projects.Create(ctx, name, nil); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	projects, total, err := env.projects.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total=3, got %d", total)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project on final page, got %d", len(projects))
	}
}
