// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Category identifies the kind of title an Entity describes.
type Category string

// Supported categories. The values match the provider's path segments.
const (
	CategoryMovie Category = "movie"
	CategoryTV    Category = "tv"
)

// ParseCategory normalizes s into a Category. An empty string yields CategoryMovie.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case "", CategoryMovie:
		return CategoryMovie, nil
	case CategoryTV:
		return CategoryTV, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// Entity is a movie or show record: the unit being guessed and targeted.
// Only ReleaseDate, GenreIDs and Rating take part in comparisons.
type Entity struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"media_type"`

	ReleaseDate string  `json:"release_date"` // YYYY-MM-DD
	GenreIDs    []int   `json:"genre_ids"`
	Rating      float64 `json:"vote_average"`

	Overview         string  `json:"overview,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	VoteCount        int64   `json:"vote_count,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
}
