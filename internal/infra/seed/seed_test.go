package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/testutil"
)

const validSeed = `{
  "items": [
    {"id": "q-001", "body": "Small steps every day.", "author": "Unknown", "themes": ["habit"]},
    {"id": "q-002", "body": "Rest is productive.", "themes": ["rest", "health"], "license": "CC0"}
  ]
}`

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   error
	}{
		{name: "valid", input: validSeed, wantCount: 2},
		{name: "empty list", input: `{"items": []}`, wantCount: 0},
		{name: "missing id", input: `{"items": [{"body": "x"}]}`, wantErr: ErrMissingID},
		{name: "missing body", input: `{"items": [{"id": "a"}]}`, wantErr: ErrMissingBody},
		{name: "duplicate id", input: `{"items": [{"id": "a", "body": "x"}, {"id": "a", "body": "y"}]}`, wantErr: ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != tt.wantCount {
				t.Errorf("items: got %d, want %d", len(items), tt.wantCount)
			}
		})
	}
}

func TestParse_Fields(t *testing.T) {
	items, err := Parse(strings.NewReader(validSeed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := items[1]
	if second.Author != "" {
		t.Errorf("Author: got %q, want empty", second.Author)
	}
	if len(second.Themes) != 2 || second.Themes[0] != "rest" {
		t.Errorf("Themes: got %v", second.Themes)
	}
	if second.Metadata.License != "CC0" {
		t.Errorf("License: got %q", second.Metadata.License)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	if _, err := Parse(strings.NewReader("{")); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(validSeed), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	ctx := context.Background()
	store := testutil.NewMemoryStore()

	added, err := LoadFile(ctx, store, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added != 2 {
		t.Errorf("added: got %d, want 2", added)
	}

	added, err = LoadFile(ctx, store, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added != 0 {
		t.Errorf("reloading the same file added %d items", added)
	}

	items, err := store.ListContent(ctx)
	if err != nil {
		t.Fatalf("ListContent: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items: got %d, want 2", len(items))
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(context.Background(), testutil.NewMemoryStore(), filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
