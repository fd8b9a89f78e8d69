package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/apierr"
	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/types"
)

// JournalUpdateInput carries the full set of writable journal fields; PUT is
// a full replacement, so omitted optional fields are cleared.
type JournalUpdateInput struct {
	Date              strfmt.Date
	ProcessedMarkdown *string
	NotesSnapshot     datatypes.JSON
	ProjectID         *uuid.UUID
}

type JournalService interface {
	List(ctx context.Context, filter repos.JournalFilter, skip, limit int) ([]*types.Journal, int64, error)
	Create(ctx context.Context, date strfmt.Date, projectID *uuid.UUID) (*types.Journal, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Journal, error)
	Update(ctx context.Context, id uuid.UUID, input JournalUpdateInput) (*types.Journal, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	Notes(ctx context.Context, id uuid.UUID) ([]*types.Note, error)
	AIJobs(ctx context.Context, id uuid.UUID) ([]*types.AIJob, error)
}

type journalService struct {
	db          *gorm.DB
	log         *logger.Logger
	journalRepo repos.JournalRepo
	projectRepo repos.ProjectRepo
	noteRepo    repos.NoteRepo
	aiJobRepo   repos.AIJobRepo
}

func NewJournalService(
	db *gorm.DB,
	baseLog *logger.Logger,
	journalRepo repos.JournalRepo,
	projectRepo repos.ProjectRepo,
	noteRepo repos.NoteRepo,
	aiJobRepo repos.AIJobRepo,
) JournalService {
	serviceLog := baseLog.With("service", "JournalService")
	return &journalService{
		db:          db,
		log:         serviceLog,
		journalRepo: journalRepo,
		projectRepo: projectRepo,
		noteRepo:    noteRepo,
		aiJobRepo:   aiJobRepo,
	}
}

func (js *journalService) List(ctx context.Context, filter repos.JournalFilter, skip, limit int) ([]*types.Journal, int64, error) {
	journals, total, err := js.journalRepo.List(ctx, nil, filter, skip, limit)
	if err != nil {
		js.log.Error("List failed", "error", err)
		return nil, 0, fmt.Errorf("list journals: %w", err)
	}
	return journals, total, nil
}

func (js *journalService) Create(ctx context.Context, date strfmt.Date, projectID *uuid.UUID) (*types.Journal, error) {
	var created *types.Journal
	err := js.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if projectID != nil {
			project, err := js.projectRepo.GetByID(ctx, tx, *projectID)
			if err != nil {
				return fmt.Errorf("check project: %w", err)
			}
			if project == nil {
				return apierr.NotFound("Project with id %s not found", *projectID)
			}
		}

		existing, err := js.journalRepo.GetByDate(ctx, tx, date)
		if err != nil {
			return fmt.Errorf("check journal date: %w", err)
		}
		if existing != nil {
			return apierr.Conflict("Journal with date %s already exists", date)
		}

		journal := &types.Journal{Date: date, ProjectID: projectID}
		created, err = js.journalRepo.Create(ctx, tx, journal)
		if err != nil {
			return translateDuplicate(err, "Journal with date %s already exists", date)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (js *journalService) Get(ctx context.Context, id uuid.UUID) (*types.Journal, error) {
	journal, err := js.journalRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get journal: %w", err)
	}
	if journal == nil {
		return nil, apierr.NotFound("Journal with id %s not found", id)
	}
	return journal, nil
}

func (js *journalService) Update(ctx context.Context, id uuid.UUID, input JournalUpdateInput) (*types.Journal, error) {
	var updated *types.Journal
	err := js.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := js.journalRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get journal: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("Journal with id %s not found", id)
		}

		if input.ProjectID != nil {
			project, err := js.projectRepo.GetByID(ctx, tx, *input.ProjectID)
			if err != nil {
				return fmt.Errorf("check project: %w", err)
			}
			if project == nil {
				return apierr.NotFound("Project with id %s not found", *input.ProjectID)
			}
		}

		conflict, err := js.journalRepo.GetByDate(ctx, tx, input.Date)
		if err != nil {
			return fmt.Errorf("check journal date: %w", err)
		}
		if conflict != nil && conflict.ID != id {
			return apierr.Conflict("Journal with date %s already exists", input.Date)
		}

		existing.Date = input.Date
		existing.ProcessedMarkdown = input.ProcessedMarkdown
		existing.NotesSnapshot = input.NotesSnapshot
		existing.ProjectID = input.ProjectID
		updated, err = js.journalRepo.Update(ctx, tx, existing)
		if err != nil {
			return translateDuplicate(err, "Journal with date %s already exists", input.Date)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the journal together with its notes (and their tag
// associations) and AI jobs. Affected counts are computed before the delete
// and reported in the outcome message.
func (js *journalService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var message string
	err := js.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := js.journalRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get journal: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("Journal with id %s not found", id)
		}

		noteCount, err := js.noteRepo.CountByJournalID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("count journal notes: %w", err)
		}
		aiJobCount, err := js.aiJobRepo.CountByJournalID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("count journal ai jobs: %w", err)
		}

		journalIDs := []uuid.UUID{id}
		if err := js.noteRepo.DeleteByJournalIDs(ctx, tx, journalIDs); err != nil {
			return fmt.Errorf("delete journal notes: %w", err)
		}
		if err := js.aiJobRepo.DeleteByJournalIDs(ctx, tx, journalIDs); err != nil {
			return fmt.Errorf("delete journal ai jobs: %w", err)
		}
		if err := js.journalRepo.Delete(ctx, tx, existing); err != nil {
			return fmt.Errorf("delete journal: %w", err)
		}

		message = fmt.Sprintf("Journal %s deleted successfully", id)
		var related []string
		if noteCount > 0 {
			related = append(related, fmt.Sprintf("%d note(s) deleted", noteCount))
		}
		if aiJobCount > 0 {
			related = append(related, fmt.Sprintf("%d AI job(s) deleted", aiJobCount))
		}
		if len(related) > 0 {
			message += fmt.Sprintf(" (%s)", strings.Join(related, ", "))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}

func (js *journalService) Notes(ctx context.Context, id uuid.UUID) ([]*types.Note, error) {
	journal, err := js.journalRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get journal: %w", err)
	}
	if journal == nil {
		return nil, apierr.NotFound("Journal with id %s not found", id)
	}
	notes, err := js.noteRepo.ListByJournalID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("list journal notes: %w", err)
	}
	return notes, nil
}

func (js *journalService) AIJobs(ctx context.Context, id uuid.UUID) ([]*types.AIJob, error) {
	journal, err := js.journalRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get journal: %w", err)
	}
	if journal == nil {
		return nil, apierr.NotFound("Journal with id %s not found", id)
	}
	jobs, err := js.aiJobRepo.ListByJournalID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("list journal ai jobs: %w", err)
	}
	return jobs, nil
}
