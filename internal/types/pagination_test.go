package types

import (
	"errors"
	"testing"
)

func TestNewPaginationParams_Validation(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		size    int
		wantErr bool
	}{
		{"first page", 1, 10, false},
		{"max size", 1, 100, false},
		{"min size", 1, 1, false},
		{"zero page", 0, 10, true},
		{"negative page", -1, 10, true},
		{"zero size", 1, 0, true},
		{"size over cap", 1, 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPaginationParams(tt.page, tt.size)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPagination) {
					t.Fatalf("NewPaginationParams(%d, %d) error = %v, want ErrInvalidPagination", tt.page, tt.size, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPaginationParams(%d, %d) error = %v, want nil", tt.page, tt.size, err)
			}
			if p.Page != tt.page || p.Size != tt.size {
				t.Errorf("params = %+v, want page=%d size=%d", p, tt.page, tt.size)
			}
		})
	}
}

func TestPaginationParams_Offset(t *testing.T) {
	tests := []struct {
		page, size, offset int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 10, 20},
		{5, 25, 100},
	}

	for _, tt := range tests {
		p, err := NewPaginationParams(tt.page, tt.size)
		if err != nil {
			t.Fatalf("NewPaginationParams(%d, %d) error = %v", tt.page, tt.size, err)
		}
		if p.Offset() != tt.offset {
			t.Errorf("Offset() = %d, want %d", p.Offset(), tt.offset)
		}
		if p.Limit() != tt.size {
			t.Errorf("Limit() = %d, want %d", p.Limit(), tt.size)
		}
	}
}

func TestNewPaginatedResult_LastPartialPage(t *testing.T) {
	p, err := NewPaginationParams(3, 10)
	if err != nil {
		t.Fatalf("NewPaginationParams() error = %v", err)
	}

	items := []int{1, 2, 3, 4, 5}
	r := NewPaginatedResult(items, 25, p)

	if r.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", r.TotalPages)
	}
	if r.HasNext {
		t.Errorf("HasNext = true, want false")
	}
	if !r.HasPrev {
		t.Errorf("HasPrev = false, want true")
	}
	if r.NextPage != nil {
		t.Errorf("NextPage = %v, want nil", *r.NextPage)
	}
	if r.PrevPage == nil || *r.PrevPage != 2 {
		t.Errorf("PrevPage = %v, want 2", r.PrevPage)
	}
}

func TestNewPaginatedResult_MiddlePage(t *testing.T) {
	p, _ := NewPaginationParams(2, 10)
	r := NewPaginatedResult(make([]int, 10), 35, p)

	if r.TotalPages != 4 {
		t.Errorf("TotalPages = %d, want 4", r.TotalPages)
	}
	if !r.HasNext || r.NextPage == nil || *r.NextPage != 3 {
		t.Errorf("HasNext/NextPage = %v/%v, want true/3", r.HasNext, r.NextPage)
	}
	if !r.HasPrev || r.PrevPage == nil || *r.PrevPage != 1 {
		t.Errorf("HasPrev/PrevPage = %v/%v, want true/1", r.HasPrev, r.PrevPage)
	}
}

func TestNewPaginatedResult_EmptyTotal(t *testing.T) {
	p, _ := NewPaginationParams(1, 10)
	r := NewPaginatedResult([]string{}, 0, p)

	if r.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", r.TotalPages)
	}
	if r.HasNext || r.HasPrev {
		t.Errorf("HasNext/HasPrev = %v/%v, want false/false", r.HasNext, r.HasPrev)
	}
	if r.NextPage != nil || r.PrevPage != nil {
		t.Errorf("NextPage/PrevPage = %v/%v, want nil/nil", r.NextPage, r.PrevPage)
	}
}

func TestNewPaginatedResult_PageBeyondTotal(t *testing.T) {
	p, _ := NewPaginationParams(9, 10)
	r := NewPaginatedResult([]int{}, 25, p)

	if r.HasNext {
		t.Errorf("HasNext = true, want false")
	}
	if !r.HasPrev {
		t.Errorf("HasPrev = false, want true")
	}
	if len(r.Items) != 0 {
		t.Errorf("len(Items) = %d, want 0", len(r.Items))
	}
}

func TestNewPaginatedResult_ExactDivision(t *testing.T) {
	p, _ := NewPaginationParams(1, 10)
	r := NewPaginatedResult(make([]int, 10), 30, p)

	if r.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", r.TotalPages)
	}
	if !r.HasNext {
		t.Errorf("HasNext = false, want true")
	}
}
