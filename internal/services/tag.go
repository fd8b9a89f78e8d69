package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flowlog/flowlog-backend/internal/apierr"
	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/types"
)

type TagService interface {
	List(ctx context.Context, skip, limit int) ([]*types.Tag, int64, error)
	Create(ctx context.Context, name string) (*types.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Tag, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*types.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	Notes(ctx context.Context, id uuid.UUID) ([]*types.Note, error)
}

type tagService struct {
	db      *gorm.DB
	log     *logger.Logger
	tagRepo repos.TagRepo
}

func NewTagService(db *gorm.DB, baseLog *logger.Logger, tagRepo repos.TagRepo) TagService {
	serviceLog := baseLog.With("service", "TagService")
	return &tagService{db: db, log: serviceLog, tagRepo: tagRepo}
}

func (ts *tagService) List(ctx context.Context, skip, limit int) ([]*types.Tag, int64, error) {
	tags, total, err := ts.tagRepo.List(ctx, nil, skip, limit)
	if err != nil {
		ts.log.Error("List failed", "error", err)
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}
	return tags, total, nil
}

func (ts *tagService) Create(ctx context.Context, name string) (*types.Tag, error) {
	var created *types.Tag
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ts.tagRepo.GetByName(ctx, tx, name)
		if err != nil {
			return fmt.Errorf("check tag name: %w", err)
		}
		if existing != nil {
			return apierr.Conflict("Tag with name '%s' already exists", name)
		}

		created, err = ts.tagRepo.Create(ctx, tx, &types.Tag{Name: name})
		if err != nil {
			return translateDuplicate(err, "Tag with name '%s' already exists", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ts *tagService) Get(ctx context.Context, id uuid.UUID) (*types.Tag, error) {
	tag, err := ts.tagRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	if tag == nil {
		return nil, apierr.NotFound("Tag with id %s not found", id)
	}
	return tag, nil
}

func (ts *tagService) Update(ctx context.Context, id uuid.UUID, name string) (*types.Tag, error) {
	var updated *types.Tag
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ts.tagRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get tag: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("Tag with id %s not found", id)
		}

		// Renaming to the current name is not a conflict.
		conflict, err := ts.tagRepo.GetByName(ctx, tx, name)
		if err != nil {
			return fmt.Errorf("check tag name: %w", err)
		}
		if conflict != nil && conflict.ID != id {
			return apierr.Conflict("Tag with name '%s' already exists", name)
		}

		existing.Name = name
		updated, err = ts.tagRepo.Update(ctx, tx, existing)
		if err != nil {
			return translateDuplicate(err, "Tag with name '%s' already exists", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the tag from every note it is attached to and reports the
// note count. The notes themselves survive.
func (ts *tagService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var message string
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ts.tagRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get tag: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("Tag with id %s not found", id)
		}

		noteCount, err := ts.tagRepo.CountNotes(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("count tag notes: %w", err)
		}

		if err := ts.tagRepo.Delete(ctx, tx, existing); err != nil {
			return fmt.Errorf("delete tag: %w", err)
		}

		message = fmt.Sprintf("Tag '%s' deleted successfully", existing.Name)
		if noteCount > 0 {
			message += fmt.Sprintf(" (removed from %d note(s))", noteCount)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}

func (ts *tagService) Notes(ctx context.Context, id uuid.UUID) ([]*types.Note, error) {
	tag, err := ts.tagRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	if tag == nil {
		return nil, apierr.NotFound("Tag with id %s not found", id)
	}
	notes, err := ts.tagRepo.ListNotes(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("list tag notes: %w", err)
	}
	return notes, nil
}
