package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/types"
)

type AIJobFilter struct {
	Status    *types.JobStatus
	JournalID *uuid.UUID
}

type AIJobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, job *types.AIJob) (*types.AIJob, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AIJob, error)
	List(ctx context.Context, tx *gorm.DB, filter AIJobFilter, skip, limit int) ([]*types.AIJob, int64, error)
	ListByJournalID(ctx context.Context, tx *gorm.DB, journalID uuid.UUID) ([]*types.AIJob, error)
	CountByJournalID(ctx context.Context, tx *gorm.DB, journalID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, job *types.AIJob) (*types.AIJob, error)
	Delete(ctx context.Context, tx *gorm.DB, job *types.AIJob) error
	DeleteByJournalIDs(ctx context.Context, tx *gorm.DB, journalIDs []uuid.UUID) error
}

type aiJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAIJobRepo(db *gorm.DB, baseLog *logger.Logger) AIJobRepo {
	repoLog := baseLog.With("repo", "AIJobRepo")
	return &aiJobRepo{db: db, log: repoLog}
}

func (ar *aiJobRepo) Create(ctx context.Context, tx *gorm.DB, job *types.AIJob) (*types.AIJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (ar *aiJobRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AIJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.AIJob
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ar *aiJobRepo) filtered(ctx context.Context, transaction *gorm.DB, filter AIJobFilter) *gorm.DB {
	query := transaction.WithContext(ctx).Model(&types.AIJob{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.JournalID != nil {
		query = query.Where("journal_id = ?", *filter.JournalID)
	}
	return query
}

func (ar *aiJobRepo) List(ctx context.Context, tx *gorm.DB, filter AIJobFilter, skip, limit int) ([]*types.AIJob, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var total int64
	if err := ar.filtered(ctx, transaction, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.AIJob
	if err := ar.filtered(ctx, transaction, filter).
		Order("created_at, id").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (ar *aiJobRepo) ListByJournalID(ctx context.Context, tx *gorm.DB, journalID uuid.UUID) ([]*types.AIJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.AIJob
	if err := transaction.WithContext(ctx).
		Where("journal_id = ?", journalID).
		Order("created_at, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *aiJobRepo) CountByJournalID(ctx context.Context, tx *gorm.DB, journalID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AIJob{}).
		Where("journal_id = ?", journalID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ar *aiJobRepo) Update(ctx context.Context, tx *gorm.DB, job *types.AIJob) (*types.AIJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (ar *aiJobRepo) Delete(ctx context.Context, tx *gorm.DB, job *types.AIJob) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Delete(job).Error
}

func (ar *aiJobRepo) DeleteByJournalIDs(ctx context.Context, tx *gorm.DB, journalIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(journalIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("journal_id IN ?", journalIDs).
		Delete(&types.AIJob{}).Error
}
