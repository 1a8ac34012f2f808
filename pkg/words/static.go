package words

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed words.json
var staticContent embed.FS

type staticFile struct {
	Categories []Category `json:"categories"`
}

// StaticProvider serves the categories embedded in the binary.
type StaticProvider struct {
	categories []Category
}

// NewStaticProvider loads and validates the embedded word list.
func NewStaticProvider() (*StaticProvider, error) {
	b, err := staticContent.ReadFile("words.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded words: %w", err)
	}

	file := &staticFile{}
	if err := json.Unmarshal(b, file); err != nil {
		return nil, fmt.Errorf("failed to parse embedded words: %w", err)
	}

	if err := ValidateCategories(file.Categories); err != nil {
		return nil, fmt.Errorf("invalid embedded words: %w", err)
	}

	return &StaticProvider{categories: file.Categories}, nil
}

func (p *StaticProvider) Categories(_ context.Context) ([]Category, error) {
	categories := make([]Category, len(p.categories))
	for i, category := range p.categories {
		words := make([]string, len(category.Words))
		copy(words, category.Words)
		categories[i] = Category{Name: category.Name, Words: words}
	}
	return categories, nil
}

func (p *StaticProvider) Close(_ context.Context) error {
	return nil
}
