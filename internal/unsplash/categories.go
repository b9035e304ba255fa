package unsplash

import (
	"math/rand/v2"
	"strings"
)

// RandomCategory is the pseudo-category that picks a real one per request.
const RandomCategory = "random"

var categories = []string{
	// Nature
	"nature", "landscape", "forest", "mountains", "ocean", "beach", "sunset",
	"waterfall", "trees", "flowers", "wildlife", "desert", "sky", "underwater",
	"jungle", "river", "winter", "autumn", "spring", "summer", "stars",
	// Urban
	"architecture", "city", "street", "buildings", "urban", "night", "travel",
	"skyline", "bridge", "downtown", "traffic", "park",
	// Colors
	"blue", "red", "green", "yellow", "purple", "orange", "black", "white",
	// Styles
	"minimalist", "vintage", "modern", "abstract", "pattern", "texture",
	// Technology
	"technology", "computer", "digital", "space", "scifi", "cyberpunk",
	// Other
	"dark", "light", "wallpaper", "background", "art", "photography",
	"food", "car", "music", "sports", "animal", "pets",
}

// Categories returns the built-in category list, excluding "random".
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// QueryPicker turns the configured category and search terms into the query
// for one request.
type QueryPicker struct {
	Category string
	Search   string // comma-separated; wins over Category
	IntN     func(n int) int
}

// Next returns the query for the next request.
func (p QueryPicker) Next() string {
	intn := p.IntN
	if intn == nil {
		intn = rand.IntN
	}

	if terms := splitTerms(p.Search); len(terms) > 0 {
		return terms[intn(len(terms))]
	}
	category := strings.ToLower(strings.TrimSpace(p.Category))
	if category == "" || category == RandomCategory {
		return categories[intn(len(categories))]
	}
	return category
}

func splitTerms(search string) []string {
	var terms []string
	for _, term := range strings.Split(search, ",") {
		if t := strings.TrimSpace(term); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
