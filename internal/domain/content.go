package domain

import "slices"

type ContentMetadata struct {
	ImageRef string `json:"image_ref,omitempty"`
	Source   string `json:"source,omitempty"`
	License  string `json:"license,omitempty"`
}

// ContentItem is a single piece of motivational content. Items are loaded
// once from a seed source and never mutated afterwards.
type ContentItem struct {
	ID       string          `json:"id"`
	Body     string          `json:"body"`
	Author   string          `json:"author"`
	Themes   []string        `json:"themes"`
	Metadata ContentMetadata `json:"metadata"`
}

// HasAnyTheme reports whether the item carries at least one of the given themes.
func (c *ContentItem) HasAnyTheme(themes []string) bool {
	for _, theme := range c.Themes {
		if slices.Contains(themes, theme) {
			return true
		}
	}
	return false
}
