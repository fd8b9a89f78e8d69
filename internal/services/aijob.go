package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/apierr"
	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/types"
)

// AIJobUpdateInput is a partial update: only non-nil fields are applied.
// The owning journal is immutable after creation.
type AIJobUpdateInput struct {
	Status       *types.JobStatus
	Response     datatypes.JSON
	ErrorMessage *string
	Meta         datatypes.JSON
}

type AIJobService interface {
	List(ctx context.Context, filter repos.AIJobFilter, skip, limit int) ([]*types.AIJob, int64, error)
	Create(ctx context.Context, journalID uuid.UUID, modelName string, modelVersion *string, prompt string) (*types.AIJob, error)
	Get(ctx context.Context, id uuid.UUID) (*types.AIJob, error)
	Update(ctx context.Context, id uuid.UUID, input AIJobUpdateInput) (*types.AIJob, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
}

type aiJobService struct {
	db          *gorm.DB
	log         *logger.Logger
	aiJobRepo   repos.AIJobRepo
	journalRepo repos.JournalRepo
}

func NewAIJobService(
	db *gorm.DB,
	baseLog *logger.Logger,
	aiJobRepo repos.AIJobRepo,
	journalRepo repos.JournalRepo,
) AIJobService {
	serviceLog := baseLog.With("service", "AIJobService")
	return &aiJobService{
		db:          db,
		log:         serviceLog,
		aiJobRepo:   aiJobRepo,
		journalRepo: journalRepo,
	}
}

func (as *aiJobService) List(ctx context.Context, filter repos.AIJobFilter, skip, limit int) ([]*types.AIJob, int64, error) {
	jobs, total, err := as.aiJobRepo.List(ctx, nil, filter, skip, limit)
	if err != nil {
		as.log.Error("List failed", "error", err)
		return nil, 0, fmt.Errorf("list ai jobs: %w", err)
	}
	return jobs, total, nil
}

func (as *aiJobService) Create(ctx context.Context, journalID uuid.UUID, modelName string, modelVersion *string, prompt string) (*types.AIJob, error) {
	var created *types.AIJob
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		journal, err := as.journalRepo.GetByID(ctx, tx, journalID)
		if err != nil {
			return fmt.Errorf("check journal: %w", err)
		}
		if journal == nil {
			return apierr.NotFound("Journal with id %s not found", journalID)
		}

		// New jobs always start queued regardless of the payload.
		job := &types.AIJob{
			JournalID:    journalID,
			ModelName:    modelName,
			ModelVersion: modelVersion,
			Prompt:       prompt,
			Status:       types.JobStatusQueued,
		}
		created, err = as.aiJobRepo.Create(ctx, tx, job)
		if err != nil {
			return fmt.Errorf("create ai job: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (as *aiJobService) Get(ctx context.Context, id uuid.UUID) (*types.AIJob, error) {
	job, err := as.aiJobRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get ai job: %w", err)
	}
	if job == nil {
		return nil, apierr.NotFound("AI job with id %s not found", id)
	}
	return job, nil
}

func (as *aiJobService) Update(ctx context.Context, id uuid.UUID, input AIJobUpdateInput) (*types.AIJob, error) {
	var updated *types.AIJob
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.aiJobRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get ai job: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("AI job with id %s not found", id)
		}

		if input.Status != nil {
			existing.Status = *input.Status
		}
		if input.Response != nil {
			existing.Response = input.Response
		}
		if input.ErrorMessage != nil {
			existing.ErrorMessage = input.ErrorMessage
		}
		if input.Meta != nil {
			existing.Meta = input.Meta
		}
		updated, err = as.aiJobRepo.Update(ctx, tx, existing)
		if err != nil {
			return fmt.Errorf("update ai job: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (as *aiJobService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var message string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.aiJobRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get ai job: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("AI job with id %s not found", id)
		}

		if err := as.aiJobRepo.Delete(ctx, tx, existing); err != nil {
			return fmt.Errorf("delete ai job: %w", err)
		}
		message = fmt.Sprintf("AI job %s deleted successfully", id)
		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}
