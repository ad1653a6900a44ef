package client

import (
	"testing"
	"time"
)

func TestIDFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url    string
		want   int
		wantOK bool
	}{
		{"https://rickandmortyapi.com/api/episode/28", 28, true},
		{"https://rickandmortyapi.com/api/location/3/", 3, true},
		{"https://rickandmortyapi.com/api/location/", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := idFromURL(tt.url)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("idFromURL(%q) got (%d, %t), want (%d, %t)", tt.url, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIDsFromURLs_skipsInvalid(t *testing.T) {
	t.Parallel()

	got := idsFromURLs([]string{
		"https://rickandmortyapi.com/api/character/1",
		"unknown",
		"https://rickandmortyapi.com/api/character/2",
	})
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("idsFromURLs got %v, want [1 2]", got)
	}
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain   text\n", "plain text"},
		{"<p>First</p><p>Second &amp; third</p>", "First Second & third"},
		{"line<br>break", "line break"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.in); got != tt.want {
			t.Errorf("stripHTML(%q) got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got := parseDate("2019-06-12T00:00:00-0400")
	want := time.Date(2019, 6, 12, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("parseDate got %v, want %v", got, want)
	}
	if got := parseDate("-0001-11-30T00:00:00-0500"); got != nil {
		t.Fatalf("parseDate of invalid date got %v, want nil", got)
	}
	if got := parseDate(""); got != nil {
		t.Fatalf("parseDate of empty got %v, want nil", got)
	}
}

func TestCleanFlavorText(t *testing.T) {
	t.Parallel()

	if got := cleanFlavorText("A strange\nseed\fwas planted"); got != "A strange seed was planted" {
		t.Fatalf("cleanFlavorText got %q", got)
	}
}
