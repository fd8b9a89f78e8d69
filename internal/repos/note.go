package repos

import (
	"context"
	"errors"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/types"
)

// NoteFilter is a conjunction of optional equality predicates. CreatedDate
// matches the date part of created_at.
type NoteFilter struct {
	CreatedDate *strfmt.Date
	JournalID   *uuid.UUID
}

type NoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Note, error)
	List(ctx context.Context, tx *gorm.DB, filter NoteFilter, skip, limit int) ([]*types.Note, int64, error)
	ListByJournalID(ctx context.Context, tx *gorm.DB, journalID uuid.UUID) ([]*types.Note, error)
	CountByJournalID(ctx context.Context, tx *gorm.DB, journalID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error)
	Delete(ctx context.Context, tx *gorm.DB, note *types.Note) error
	DeleteByJournalIDs(ctx context.Context, tx *gorm.DB, journalIDs []uuid.UUID) error

	ListTags(ctx context.Context, tx *gorm.DB, noteID uuid.UUID) ([]*types.Tag, error)
	CountTags(ctx context.Context, tx *gorm.DB, noteID uuid.UUID) (int64, error)
	HasTag(ctx context.Context, tx *gorm.DB, noteID, tagID uuid.UUID) (bool, error)
	AppendTag(ctx context.Context, tx *gorm.DB, note *types.Note, tag *types.Tag) error
	RemoveTag(ctx context.Context, tx *gorm.DB, note *types.Note, tag *types.Tag) error
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	repoLog := baseLog.With("repo", "NoteRepo")
	return &noteRepo{db: db, log: repoLog}
}

func (nr *noteRepo) Create(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (nr *noteRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var result types.Note
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

func (nr *noteRepo) filtered(ctx context.Context, transaction *gorm.DB, filter NoteFilter) *gorm.DB {
	query := transaction.WithContext(ctx).Model(&types.Note{})
	if filter.CreatedDate != nil {
		// date() works on both postgres and sqlite timestamps.
		query = query.Where("date(created_at) = ?", *filter.CreatedDate)
	}
	if filter.JournalID != nil {
		query = query.Where("journal_id = ?", *filter.JournalID)
	}
	return query
}

func (nr *noteRepo) List(ctx context.Context, tx *gorm.DB, filter NoteFilter, skip, limit int) ([]*types.Note, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var total int64
	if err := nr.filtered(ctx, transaction, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Note
	if err := nr.filtered(ctx, transaction, filter).
		Order("created_at, id").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (nr *noteRepo) ListByJournalID(ctx context.Context, tx *gorm.DB, journalID uuid.UUID) ([]*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.Note
	if err := transaction.WithContext(ctx).
		Where("journal_id = ?", journalID).
		Order("created_at, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *noteRepo) CountByJournalID(ctx context.Context, tx *gorm.DB, journalID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Note{}).
		Where("journal_id = ?", journalID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (nr *noteRepo) Update(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if err := transaction.WithContext(ctx).Omit(clause.Associations).Save(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes the note and its tag association rows. The tags themselves
// survive.
func (nr *noteRepo) Delete(ctx context.Context, tx *gorm.DB, note *types.Note) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).Select(clause.Associations).Delete(note).Error
}

func (nr *noteRepo) DeleteByJournalIDs(ctx context.Context, tx *gorm.DB, journalIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if len(journalIDs) == 0 {
		return nil
	}

	var noteIDs []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Note{}).
		Where("journal_id IN ?", journalIDs).
		Pluck("id", &noteIDs).Error; err != nil {
		return err
	}
	if len(noteIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Exec("DELETE FROM note_tags WHERE note_id IN ?", noteIDs).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", noteIDs).
		Delete(&types.Note{}).Error
}

func (nr *noteRepo) ListTags(ctx context.Context, tx *gorm.DB, noteID uuid.UUID) ([]*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.Tag
	if err := transaction.WithContext(ctx).
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Where("note_tags.note_id = ?", noteID).
		Order("tags.created_at, tags.id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *noteRepo) CountTags(ctx context.Context, tx *gorm.DB, noteID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Table("note_tags").
		Where("note_id = ?", noteID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (nr *noteRepo) HasTag(ctx context.Context, tx *gorm.DB, noteID, tagID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Table("note_tags").
		Where("note_id = ? AND tag_id = ?", noteID, tagID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (nr *noteRepo) AppendTag(ctx context.Context, tx *gorm.DB, note *types.Note, tag *types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).Model(note).Association("Tags").Append(tag)
}

func (nr *noteRepo) RemoveTag(ctx context.Context, tx *gorm.DB, note *types.Note, tag *types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).Model(note).Association("Tags").Delete(tag)
}
