package repos

import (
	"context"
	"errors"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/types"
)

// JournalFilter is a conjunction of optional equality predicates applied to
// both the page query and the matching total count.
type JournalFilter struct {
	Date      *strfmt.Date
	ProjectID *uuid.UUID
}

type JournalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, journal *types.Journal) (*types.Journal, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Journal, error)
	GetByDate(ctx context.Context, tx *gorm.DB, date strfmt.Date) (*types.Journal, error)
	List(ctx context.Context, tx *gorm.DB, filter JournalFilter, skip, limit int) ([]*types.Journal, int64, error)
	ListByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Journal, error)
	CountByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, journal *types.Journal) (*types.Journal, error)
	Delete(ctx context.Context, tx *gorm.DB, journal *types.Journal) error
	DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error
}

type journalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJournalRepo(db *gorm.DB, baseLog *logger.Logger) JournalRepo {
	repoLog := baseLog.With("repo", "JournalRepo")
	return &journalRepo{db: db, log: repoLog}
}

func (jr *journalRepo) Create(ctx context.Context, tx *gorm.DB, journal *types.Journal) (*types.Journal, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	if journal.ID == uuid.Nil {
		journal.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).Create(journal).Error; err != nil {
		return nil, err
	}
	return journal, nil
}

func (jr *journalRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Journal, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var result types.Journal
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

func (jr *journalRepo) GetByDate(ctx context.Context, tx *gorm.DB, date strfmt.Date) (*types.Journal, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var result types.Journal
	if err := transaction.WithContext(ctx).
		Where("date = ?", date).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (jr *journalRepo) filtered(ctx context.Context, transaction *gorm.DB, filter JournalFilter) *gorm.DB {
	query := transaction.WithContext(ctx).Model(&types.Journal{})
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	return query
}

func (jr *journalRepo) List(ctx context.Context, tx *gorm.DB, filter JournalFilter, skip, limit int) ([]*types.Journal, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var total int64
	if err := jr.filtered(ctx, transaction, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Journal
	if err := jr.filtered(ctx, transaction, filter).
		Order("created_at, id").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (jr *journalRepo) ListByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Journal, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var results []*types.Journal
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (jr *journalRepo) CountByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Journal{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (jr *journalRepo) Update(ctx context.Context, tx *gorm.DB, journal *types.Journal) (*types.Journal, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	if err := transaction.WithContext(ctx).Save(journal).Error; err != nil {
		return nil, err
	}
	return journal, nil
}

func (jr *journalRepo) Delete(ctx context.Context, tx *gorm.DB, journal *types.Journal) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	return transaction.WithContext(ctx).Delete(journal).Error
}

func (jr *journalRepo) DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	return transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&types.Journal{}).Error
}
