package service

import (
	"context"
	"testing"
)

func TestPokemonService_List_nextFlag(t *testing.T) {
	t.Parallel()

	s := NewPokemonService(&fakePokeAPI{}, nil)

	tests := []struct {
		limit, offset int
		wantLen       int
		wantNext      bool
	}{
		{20, 0, 20, true},
		{20, 20, 20, true},
		{20, 40, 5, false},
		{25, 20, 25, false},
	}
	for _, tt := range tests {
		page, err := s.List(context.Background(), tt.limit, tt.offset)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Results) != tt.wantLen || page.Next != tt.wantNext || page.Count != 45 {
			t.Errorf("List(%d, %d) got len=%d next=%t count=%d, want len=%d next=%t count=45",
				tt.limit, tt.offset, len(page.Results), page.Next, page.Count, tt.wantLen, tt.wantNext)
		}
	}
}

func TestPokemonService_Search(t *testing.T) {
	t.Parallel()

	s := NewPokemonService(&fakePokeAPI{}, nil)

	res, err := s.Search(context.Background(), " pikachu ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].ID != 25 {
		t.Fatalf("Results got %+v, want pikachu", res.Results)
	}

	res, err = s.Search(context.Background(), "agumon")
	if err != nil {
		t.Fatalf("not found should be empty, got error %v", err)
	}
	if res.Results == nil || len(res.Results) != 0 {
		t.Fatalf("Results got %#v, want empty slice", res.Results)
	}

	if _, err := s.Search(context.Background(), "boom"); err == nil {
		t.Fatal("upstream failure should be an error")
	}
}

func TestPokemonService_Detail_cached(t *testing.T) {
	t.Parallel()

	api := &fakePokeAPI{}
	s := NewPokemonService(api, newMemoryCache())

	for i := 0; i < 3; i++ {
		d, err := s.Detail(context.Background(), "Pikachu")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Name != "pikachu" || len(d.Moves) != 1 {
			t.Fatalf("Detail got %+v", d)
		}
	}
	if api.detailCalls != 1 {
		t.Fatalf("upstream detail calls got %d, want 1", api.detailCalls)
	}
}
