package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

var (
	ErrMissingID   = errors.New("seed item has no id")
	ErrMissingBody = errors.New("seed item has no body")
	ErrDuplicateID = errors.New("duplicate seed item id")
)

type file struct {
	Items []item `json:"items"`
}

type item struct {
	ID       string   `json:"id"`
	Body     string   `json:"body"`
	Author   string   `json:"author"`
	Themes   []string `json:"themes"`
	ImageRef string   `json:"image_ref"`
	Source   string   `json:"source"`
	License  string   `json:"license"`
}

// Parse reads a seed document of the form {"items": [...]}.
func Parse(r io.Reader) ([]*domain.ContentItem, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Items))
	items := make([]*domain.ContentItem, 0, len(f.Items))
	var errs []error
	for i, it := range f.Items {
		switch {
		case it.ID == "":
			errs = append(errs, fmt.Errorf("items[%d]: %w", i, ErrMissingID))
			continue
		case it.Body == "":
			errs = append(errs, fmt.Errorf("items[%d] %q: %w", i, it.ID, ErrMissingBody))
			continue
		}
		if _, dup := seen[it.ID]; dup {
			errs = append(errs, fmt.Errorf("items[%d] %q: %w", i, it.ID, ErrDuplicateID))
			continue
		}
		seen[it.ID] = struct{}{}

		themes := it.Themes
		if themes == nil {
			themes = []string{}
		}
		items = append(items, &domain.ContentItem{
			ID:     it.ID,
			Body:   it.Body,
			Author: it.Author,
			Themes: themes,
			Metadata: domain.ContentMetadata{
				ImageRef: it.ImageRef,
				Source:   it.Source,
				License:  it.License,
			},
		})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return items, nil
}

// LoadFile stores the items in the seed file at path that are not stored yet
// and returns how many were added. Existing items are never changed.
func LoadFile(ctx context.Context, repo domain.ContentRepository, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	items, err := Parse(f)
	if err != nil {
		return 0, err
	}

	added, err := repo.InsertContent(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("failed to insert seed content: %w", err)
	}

	slog.InfoContext(ctx, "seed content loaded",
		slog.String("path", path),
		slog.Int("items", len(items)),
		slog.Int("added", added),
	)

	return added, nil
}
