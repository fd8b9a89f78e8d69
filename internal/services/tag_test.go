package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/flowlog/flowlog-backend/internal/types"
)

func TestTagCreate_DuplicateNameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.tags.Create(ctx, "ideas"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := env.tags.Create(ctx, "ideas")
	wantStatus(t, err, http.StatusConflict)
}

func TestTagUpdate_RenameToOwnNameAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tag, err := env.tags.Create(ctx, "ideas")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.tags.Update(ctx, tag.ID, "ideas"); err != nil {
		t.Fatalf("rename to own name: %v", err)
	}
}

func TestTagUpdate_RenameToTakenNameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.tags.Create(ctx, "ideas"); err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := env.tags.Create(ctx, "later")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = env.tags.Update(ctx, second.ID, "ideas")
	wantStatus(t, err, http.StatusConflict)
}

func TestTagDelete_DetachesFromNotesButKeepsThem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	note, err := env.notes.Create(ctx, "draft", nil, nil)
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	tag, err := env.tags.Create(ctx, "ideas")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if _, err := env.notes.AttachTag(ctx, note.ID, tag.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	message, err := env.tags.Delete(ctx, tag.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(message, "Tag 'ideas' deleted successfully") || !strings.Contains(message, "removed from 1 note(s)") {
		t.Fatalf("unexpected delete message %q", message)
	}

	if n := countRows(t, env.db, &types.Note{}); n != 1 {
		t.Fatalf("expected note to survive tag delete, found %d", n)
	}
	tags, err := env.notes.Tags(ctx, note.ID)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected note to have no tags left, got %d", len(tags))
	}
}

func TestTagNotes_UnknownTagNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tags.Notes(context.Background(), uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}

func TestTagNotes_ListsAttachedNotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tag, err := env.tags.Create(ctx, "ideas")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	for _, text := range []string{"first", "second"} {
		note, err := env.notes.Create(ctx, text, nil, nil)
		if err != nil {
			t.Fatalf("create note: %v", err)
		}
		if _, err := env.notes.AttachTag(ctx, note.ID, tag.ID); err != nil {
			t.Fatalf("attach: %v", err)
		}
	}

	notes, err := env.tags.Notes(ctx, tag.ID)
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
}
