package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/types"
)

func TestAIJobCreate_StartsQueued(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	journal, err := env.journals.Create(ctx, mustDate(t, "2024-03-01"), nil)
	if err != nil {
		t.Fatalf("create journal: %v", err)
	}

	job, err := env.aiJobs.Create(ctx, journal.ID, "summarizer", nil, "summarize the day")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.Status != types.JobStatusQueued {
		t.Fatalf("expected new job queued, got %q", job.Status)
	}
}

func TestAIJobCreate_UnknownJournalNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.aiJobs.Create(context.Background(), uuid.New(), "summarizer", nil, "summarize")
	wantStatus(t, err, http.StatusNotFound)
}

func TestAIJobUpdate_PartialFieldsOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	journal, err := env.journals.Create(ctx, mustDate(t, "2024-03-01"), nil)
	if err != nil {
		t.Fatalf("create journal: %v", err)
	}
	job, err := env.aiJobs.Create(ctx, journal.ID, "summarizer", nil, "summarize the day")
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	status := types.JobStatusProcessing
	updated, err := env.aiJobs.Update(ctx, job.ID, AIJobUpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != types.JobStatusProcessing {
		t.Fatalf("expected status processing, got %q", updated.Status)
	}
	if updated.Prompt != "summarize the day" || updated.ModelName != "summarizer" {
		t.Fatalf("expected untouched fields preserved, got prompt=%q model=%q", updated.Prompt, updated.ModelName)
	}
	if updated.Response != nil {
		t.Fatalf("expected response still empty, got %s", updated.Response)
	}

	// A later result write must not reset the status.
	response := datatypes.JSON([]byte(`{"summary":"quiet day"}`))
	updated, err = env.aiJobs.Update(ctx, job.ID, AIJobUpdateInput{Response: response})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.Status != types.JobStatusProcessing {
		t.Fatalf("expected status preserved across partial update, got %q", updated.Status)
	}
	if updated.Response == nil {
		t.Fatalf("expected response stored")
	}
}

func TestAIJobList_FilterByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	journal, err := env.journals.Create(ctx, mustDate(t, "2024-03-01"), nil)
	if err != nil {
		t.Fatalf("create journal: %v", err)
	}
	first, err := env.aiJobs.Create(ctx, journal.ID, "summarizer", nil, "summarize")
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if _, err := env.aiJobs.Create(ctx, journal.ID, "summarizer", nil, "extract topics"); err != nil {
		t.Fatalf("create job: %v", err)
	}

	status := types.JobStatusSuccess
	if _, err := env.aiJobs.Update(ctx, first.ID, AIJobUpdateInput{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}

	jobs, total, err := env.aiJobs.List(ctx, repos.AIJobFilter{Status: &status}, 0, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(jobs) != 1 {
		t.Fatalf("expected one success job, got total=%d len=%d", total, len(jobs))
	}
	if jobs[0].ID != first.ID {
		t.Fatalf("expected job %s, got %s", first.ID, jobs[0].ID)
	}
}

func TestAIJobDelete_UnknownIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.aiJobs.Delete(context.Background(), uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}
