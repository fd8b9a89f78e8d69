package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/types"
)

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Project, error)
	List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*types.Project, int64, error)
	Update(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error)
	Delete(ctx context.Context, tx *gorm.DB, project *types.Project) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	repoLog := baseLog.With("repo", "ProjectRepo")
	return &projectRepo{db: db, log: repoLog}
}

func (pr *projectRepo) Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (pr *projectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Project
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

func (pr *projectRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Project
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *projectRepo) List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*types.Project, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Project
	if err := transaction.WithContext(ctx).
		Order("created_at, id").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (pr *projectRepo) Update(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (pr *projectRepo) Delete(ctx context.Context, tx *gorm.DB, project *types.Project) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Delete(project).Error
}
