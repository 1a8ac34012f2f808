// Package words provides the category/word content the game draws from.
package words

import (
	"context"
	"fmt"
)

// WordsPerCategory is the size of the word grid shown to players.
const WordsPerCategory = 12

// Category is a named set of exactly WordsPerCategory words.
type Category struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// Provider supplies the available categories.
type Provider interface {
	Categories(ctx context.Context) ([]Category, error)
	Close(ctx context.Context) error
}

// ValidateCategories rejects content that would break the word grid.
func ValidateCategories(categories []Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("no categories available")
	}

	seen := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		if category.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if _, dup := seen[category.Name]; dup {
			return fmt.Errorf("duplicate category %q", category.Name)
		}
		seen[category.Name] = struct{}{}

		if len(category.Words) != WordsPerCategory {
			return fmt.Errorf("category %q has %d words, want %d", category.Name, len(category.Words), WordsPerCategory)
		}
		for i, word := range category.Words {
			if word == "" {
				return fmt.Errorf("category %q has an empty word at index %d", category.Name, i)
			}
		}
	}

	return nil
}
