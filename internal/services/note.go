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

// NoteUpdateInput replaces text/meta; the journal reference is applied only
// when explicitly provided.
type NoteUpdateInput struct {
	Text      string
	Meta      datatypes.JSON
	JournalID *uuid.UUID
}

type NoteService interface {
	List(ctx context.Context, filter repos.NoteFilter, skip, limit int) ([]*types.Note, int64, error)
	Create(ctx context.Context, text string, meta datatypes.JSON, journalID *uuid.UUID) (*types.Note, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Note, error)
	Update(ctx context.Context, id uuid.UUID, input NoteUpdateInput) (*types.Note, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	Tags(ctx context.Context, id uuid.UUID) ([]*types.Tag, error)
	AttachTag(ctx context.Context, noteID, tagID uuid.UUID) (string, error)
	DetachTag(ctx context.Context, noteID, tagID uuid.UUID) (string, error)
}

type noteService struct {
	db          *gorm.DB
	log         *logger.Logger
	noteRepo    repos.NoteRepo
	journalRepo repos.JournalRepo
	tagRepo     repos.TagRepo
}

func NewNoteService(
	db *gorm.DB,
	baseLog *logger.Logger,
	noteRepo repos.NoteRepo,
	journalRepo repos.JournalRepo,
	tagRepo repos.TagRepo,
) NoteService {
	serviceLog := baseLog.With("service", "NoteService")
	return &noteService{
		db:          db,
		log:         serviceLog,
		noteRepo:    noteRepo,
		journalRepo: journalRepo,
		tagRepo:     tagRepo,
	}
}

func (ns *noteService) List(ctx context.Context, filter repos.NoteFilter, skip, limit int) ([]*types.Note, int64, error) {
	notes, total, err := ns.noteRepo.List(ctx, nil, filter, skip, limit)
	if err != nil {
		ns.log.Error("List failed", "error", err)
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	return notes, total, nil
}

func (ns *noteService) Create(ctx context.Context, text string, meta datatypes.JSON, journalID *uuid.UUID) (*types.Note, error) {
	var created *types.Note
	err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if journalID != nil {
			journal, err := ns.journalRepo.GetByID(ctx, tx, *journalID)
			if err != nil {
				return fmt.Errorf("check journal: %w", err)
			}
			if journal == nil {
				return apierr.NotFound("Journal with id %s not found", *journalID)
			}
		}

		note := &types.Note{Text: text, Meta: meta, JournalID: journalID}
		var err error
		created, err = ns.noteRepo.Create(ctx, tx, note)
		if err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ns *noteService) Get(ctx context.Context, id uuid.UUID) (*types.Note, error) {
	note, err := ns.noteRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if note == nil {
		return nil, apierr.NotFound("Note with id %s not found", id)
	}
	return note, nil
}

func (ns *noteService) Update(ctx context.Context, id uuid.UUID, input NoteUpdateInput) (*types.Note, error) {
	var updated *types.Note
	err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ns.noteRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get note: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("Note with id %s not found", id)
		}

		if input.JournalID != nil {
			journal, err := ns.journalRepo.GetByID(ctx, tx, *input.JournalID)
			if err != nil {
				return fmt.Errorf("check journal: %w", err)
			}
			if journal == nil {
				return apierr.NotFound("Journal with id %s not found", *input.JournalID)
			}
		}

		// Tags are managed via the dedicated attach/detach operations.
		existing.Text = input.Text
		existing.Meta = input.Meta
		if input.JournalID != nil {
			existing.JournalID = input.JournalID
		}
		updated, err = ns.noteRepo.Update(ctx, tx, existing)
		if err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the note and reports how many tag associations went with
// it. Tags themselves are untouched.
func (ns *noteService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var message string
	err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ns.noteRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get note: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("Note with id %s not found", id)
		}

		tagCount, err := ns.noteRepo.CountTags(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("count note tags: %w", err)
		}

		if err := ns.noteRepo.Delete(ctx, tx, existing); err != nil {
			return fmt.Errorf("delete note: %w", err)
		}

		message = fmt.Sprintf("Note %s deleted successfully", id)
		if tagCount > 0 {
			message += fmt.Sprintf(" (%d tag association(s) removed)", tagCount)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}

func (ns *noteService) Tags(ctx context.Context, id uuid.UUID) ([]*types.Tag, error) {
	note, err := ns.noteRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if note == nil {
		return nil, apierr.NotFound("Note with id %s not found", id)
	}
	tags, err := ns.noteRepo.ListTags(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("list note tags: %w", err)
	}
	return tags, nil
}

func (ns *noteService) AttachTag(ctx context.Context, noteID, tagID uuid.UUID) (string, error) {
	var message string
	err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note, err := ns.noteRepo.GetByID(ctx, tx, noteID)
		if err != nil {
			return fmt.Errorf("get note: %w", err)
		}
		if note == nil {
			return apierr.NotFound("Note with id %s not found", noteID)
		}

		tag, err := ns.tagRepo.GetByID(ctx, tx, tagID)
		if err != nil {
			return fmt.Errorf("get tag: %w", err)
		}
		if tag == nil {
			return apierr.NotFound("Tag with id %s not found", tagID)
		}

		attached, err := ns.noteRepo.HasTag(ctx, tx, noteID, tagID)
		if err != nil {
			return fmt.Errorf("check note tag: %w", err)
		}
		if attached {
			return apierr.Conflict("Tag %s is already associated with note %s", tagID, noteID)
		}

		if err := ns.noteRepo.AppendTag(ctx, tx, note, tag); err != nil {
			return translateDuplicate(err, "Tag %s is already associated with note %s", tagID, noteID)
		}

		message = fmt.Sprintf("Tag '%s' added to note %s", tag.Name, noteID)
		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}

func (ns *noteService) DetachTag(ctx context.Context, noteID, tagID uuid.UUID) (string, error) {
	var message string
	err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note, err := ns.noteRepo.GetByID(ctx, tx, noteID)
		if err != nil {
			return fmt.Errorf("get note: %w", err)
		}
		if note == nil {
			return apierr.NotFound("Note with id %s not found", noteID)
		}

		tag, err := ns.tagRepo.GetByID(ctx, tx, tagID)
		if err != nil {
			return fmt.Errorf("get tag: %w", err)
		}
		if tag == nil {
			return apierr.NotFound("Tag with id %s not found", tagID)
		}

		attached, err := ns.noteRepo.HasTag(ctx, tx, noteID, tagID)
		if err != nil {
			return fmt.Errorf("check note tag: %w", err)
		}
		if !attached {
			return apierr.NotFound("Tag %s is not associated with note %s", tagID, noteID)
		}

		if err := ns.noteRepo.RemoveTag(ctx, tx, note, tag); err != nil {
			return fmt.Errorf("remove note tag: %w", err)
		}

		message = fmt.Sprintf("Tag '%s' removed from note %s", tag.Name, noteID)
		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}
