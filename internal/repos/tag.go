package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/types"
)

type TagRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tag *types.Tag) (*types.Tag, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tag, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Tag, error)
	List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*types.Tag, int64, error)
	Update(ctx context.Context, tx *gorm.DB, tag *types.Tag) (*types.Tag, error)
	Delete(ctx context.Context, tx *gorm.DB, tag *types.Tag) error

	ListNotes(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) ([]*types.Note, error)
	CountNotes(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) (int64, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	repoLog := baseLog.With("repo", "TagRepo")
	return &tagRepo{db: db, log: repoLog}
}

func (tr *tagRepo) Create(ctx context.Context, tx *gorm.DB, tag *types.Tag) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

func (tr *tagRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result types.Tag
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

func (tr *tagRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result types.Tag
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

func (tr *tagRepo) List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*types.Tag, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Tag{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Tag
	if err := transaction.WithContext(ctx).
		Order("created_at, id").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (tr *tagRepo) Update(ctx context.Context, tx *gorm.DB, tag *types.Tag) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Omit(clause.Associations).Save(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes the tag and its note association rows. The notes themselves
// survive.
func (tr *tagRepo) Delete(ctx context.Context, tx *gorm.DB, tag *types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Select(clause.Associations).Delete(tag).Error
}

func (tr *tagRepo) ListNotes(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) ([]*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Note
	if err := transaction.WithContext(ctx).
		Joins("JOIN note_tags ON note_tags.note_id = notes.id").
		Where("note_tags.tag_id = ?", tagID).
		Order("notes.created_at, notes.id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tagRepo) CountNotes(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Table("note_tags").
		Where("tag_id = ?", tagID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
