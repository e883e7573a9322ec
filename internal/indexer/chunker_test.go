package indexer

import (
	"errors"
	"strings"
	"testing"

	"askdocs/internal/ingest"
	"askdocs/internal/service"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{
			name:    "short text yields one chunk",
			text:    "hello world",
			size:    100,
			overlap: 20,
			want:    []string{"hello world"},
		},
		{
			name:    "exact window boundary",
			text:    "abcdefghij",
			size:    10,
			overlap: 2,
			want:    []string{"abcdefghij"},
		},
		{
			name:    "overlapping windows",
			text:    "abcdefghij",
			size:    6,
			overlap: 2,
			want:    []string{"abcdef", "efghij"},
		},
		{
			name:    "no overlap",
			text:    "abcdef",
			size:    3,
			overlap: 0,
			want:    []string{"abc", "def"},
		},
		{
			name:    "whitespace only window dropped",
			text:    "ab    cd",
			size:    2,
			overlap: 0,
			want:    []string{"ab", "cd"},
		},
		{
			name:    "empty text",
			text:    "",
			size:    10,
			overlap: 2,
			want:    nil,
		},
		{
			name:    "multibyte runes counted as single characters",
			text:    "ααββγγ",
			size:    2,
			overlap: 0,
			want:    []string{"αα", "ββ", "γγ"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitText(tt.text, tt.size, tt.overlap)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d chunks %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 50)
	a := splitText(text, 100, 20)
	b := splitText(text, 100, 20)
	if len(a) != len(b) {
		t.Fatalf("runs disagree on chunk count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs disagree at chunk %d", i)
		}
	}
}

func TestChunkDocuments(t *testing.T) {
	docs := []ingest.Document{
		{
			DocID:    "guide_abc12345",
			Filename: "guide.md",
			Pages: []ingest.Page{
				{Page: 1, Text: "abcdefghij"},
				{Page: 2, Text: "klm"},
			},
		},
	}

	records, err := ChunkDocuments(docs, 6, 2)
	if err != nil {
		t.Fatalf("ChunkDocuments failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	wantIDs := []string{"guide_abc12345_p1_0", "guide_abc12345_p1_1", "guide_abc12345_p2_0"}
	for i, want := range wantIDs {
		if records[i].ChunkID != want {
			t.Errorf("records[%d].ChunkID = %q, want %q", i, records[i].ChunkID, want)
		}
	}
	if records[0].Filename != "guide.md" || records[0].DocID != "guide_abc12345" || records[0].Page != 1 {
		t.Errorf("record metadata wrong: %+v", records[0])
	}
	if records[2].Page != 2 {
		t.Errorf("records[2].Page = %d, want 2", records[2].Page)
	}
}

func TestChunkDocumentsValidation(t *testing.T) {
	docs := []ingest.Document{{DocID: "d", Filename: "f.txt", Pages: []ingest.Page{{Page: 1, Text: "text"}}}}

	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ChunkDocuments(docs, tt.size, tt.overlap)
			if !errors.Is(err, service.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestChunkDocumentsEmptyInput(t *testing.T) {
	records, err := ChunkDocuments(nil, 800, 150)
	if err != nil {
		t.Fatalf("ChunkDocuments failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
