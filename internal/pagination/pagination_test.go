package pagination

import "testing"

func TestSkipLimit(t *testing.T) {
	tests := []struct {
		p, pp       int
		skip, limit int
	}{
		{p: 1, pp: 20, skip: 0, limit: 20},
		{p: 2, pp: 20, skip: 20, limit: 20},
		{p: 5, pp: 7, skip: 28, limit: 7},
	}
	for _, tt := range tests {
		skip, limit := SkipLimit(tt.p, tt.pp)
		if skip != tt.skip || limit != tt.limit {
			t.Fatalf("SkipLimit(%d, %d) = %d, %d; want %d, %d", tt.p, tt.pp, skip, limit, tt.skip, tt.limit)
		}
	}
}

func TestNewMeta_RoundsTotalPagesUp(t *testing.T) {
	meta := NewMeta(1, 20, 41)
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", meta.TotalPages)
	}
	if !meta.HasNext {
		t.Fatalf("expected has_next=true on page 1 of 3")
	}
	if meta.HasPrev {
		t.Fatalf("expected has_prev=false on page 1")
	}
}

func TestNewMeta_LastPage(t *testing.T) {
	meta := NewMeta(3, 20, 41)
	if meta.HasNext {
		t.Fatalf("expected has_next=false on last page")
	}
	if !meta.HasPrev {
		t.Fatalf("expected has_prev=true on page 3")
	}
}

func TestNewMeta_EmptyResultSet(t *testing.T) {
	meta := NewMeta(1, 20, 0)
	if meta.TotalPages != 0 {
		t.Fatalf("expected 0 total pages, got %d", meta.TotalPages)
	}
	if meta.HasNext || meta.HasPrev {
		t.Fatalf("expected no neighbors on empty set")
	}
}

func TestNewMeta_PagePastEnd(t *testing.T) {
	meta := NewMeta(9, 10, 15)
	if meta.HasNext {
		t.Fatalf("expected has_next=false past the end")
	}
	if !meta.HasPrev {
		t.Fatalf("expected has_prev=true past the end")
	}
}
