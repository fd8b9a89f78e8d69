package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/apierr"
	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/types"
)

type ProjectService interface {
	List(ctx context.Context, skip, limit int) ([]*types.Project, int64, error)
	Create(ctx context.Context, name string, description *string) (*types.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Project, error)
	Update(ctx context.Context, id uuid.UUID, name string, description *string) (*types.Project, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	Journals(ctx context.Context, id uuid.UUID) ([]*types.Journal, error)
}

type projectService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	journalRepo repos.JournalRepo
	noteRepo    repos.NoteRepo
	aiJobRepo   repos.AIJobRepo
}

func NewProjectService(
	db *gorm.DB,
	baseLog *logger.Logger,
	projectRepo repos.ProjectRepo,
	journalRepo repos.JournalRepo,
	noteRepo repos.NoteRepo,
	aiJobRepo repos.AIJobRepo,
) ProjectService {
	serviceLog := baseLog.With("service", "ProjectService")
	return &projectService{
		db:          db,
		log:         serviceLog,
		projectRepo: projectRepo,
		journalRepo: journalRepo,
		noteRepo:    noteRepo,
		aiJobRepo:   aiJobRepo,
	}
}

func (ps *projectService) List(ctx context.Context, skip, limit int) ([]*types.Project, int64, error) {
	projects, total, err := ps.projectRepo.List(ctx, nil, skip, limit)
	if err != nil {
		ps.log.Error("List failed", "error", err)
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	return projects, total, nil
}

func (ps *projectService) Create(ctx context.Context, name string, description *string) (*types.Project, error) {
	var created *types.Project
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ps.projectRepo.GetByName(ctx, tx, name)
		if err != nil {
			return fmt.Errorf("check project name: %w", err)
		}
		if existing != nil {
			return apierr.Conflict("Project with name '%s' already exists", name)
		}

		project := &types.Project{Name: name, Description: description}
		created, err = ps.projectRepo.Create(ctx, tx, project)
		if err != nil {
			return translateDuplicate(err, "Project with name '%s' already exists", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ps *projectService) Get(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	project, err := ps.projectRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, apierr.NotFound("Project with id %s not found", id)
	}
	return project, nil
}

func (ps *projectService) Update(ctx context.Context, id uuid.UUID, name string, description *string) (*types.Project, error) {
	var updated *types.Project
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ps.projectRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get project: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("Project with id %s not found", id)
		}

		// Renaming to the current name is not a conflict.
		conflict, err := ps.projectRepo.GetByName(ctx, tx, name)
		if err != nil {
			return fmt.Errorf("check project name: %w", err)
		}
		if conflict != nil && conflict.ID != id {
			return apierr.Conflict("Project with name '%s' already exists", name)
		}

		existing.Name = name
		existing.Description = description
		updated, err = ps.projectRepo.Update(ctx, tx, existing)
		if err != nil {
			return translateDuplicate(err, "Project with name '%s' already exists", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the project and cascade-deletes its journals together with
// their notes and AI jobs. The affected journal count is reported in the
// outcome message; it never blocks the delete.
func (ps *projectService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var message string
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ps.projectRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get project: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("Project with id %s not found", id)
		}

		journals, err := ps.journalRepo.ListByProjectID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("list project journals: %w", err)
		}
		journalIDs := make([]uuid.UUID, 0, len(journals))
		for _, journal := range journals {
			journalIDs = append(journalIDs, journal.ID)
		}

		if err := ps.noteRepo.DeleteByJournalIDs(ctx, tx, journalIDs); err != nil {
			return fmt.Errorf("delete journal notes: %w", err)
		}
		if err := ps.aiJobRepo.DeleteByJournalIDs(ctx, tx, journalIDs); err != nil {
			return fmt.Errorf("delete journal ai jobs: %w", err)
		}
		if err := ps.journalRepo.DeleteByProjectID(ctx, tx, id); err != nil {
			return fmt.Errorf("delete project journals: %w", err)
		}
		if err := ps.projectRepo.Delete(ctx, tx, existing); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}

		message = fmt.Sprintf("Project %s deleted successfully", id)
		if len(journals) > 0 {
			message += fmt.Sprintf(" (cascade deleted %d journal(s))", len(journals))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}

func (ps *projectService) Journals(ctx context.Context, id uuid.UUID) ([]*types.Journal, error) {
	project, err := ps.projectRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, apierr.NotFound("Project with id %s not found", id)
	}
	journals, err := ps.journalRepo.ListByProjectID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("list project journals: %w", err)
	}
	return journals, nil
}

// translateDuplicate maps a store-level unique constraint violation to the
// same Conflict the pre-check would have produced. The pre-check is a
// best-effort UX improvement; the constraint is the actual backstop under
// concurrent writes.
func translateDuplicate(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierr.Conflict(format, args...)
	}
	return err
}
