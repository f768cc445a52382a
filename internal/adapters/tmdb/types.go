package tmdb

import (
	"fmt"

	"github.com/okian/cinedle/internal/domain/model"
	"github.com/okian/cinedle/internal/validation"
)

// Result represents a single TMDB listing entry. Movies carry Title and
// ReleaseDate, shows carry Name and FirstAirDate.
type Result struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	MediaType        string  `json:"media_type"`
	GenreIDs         []int   `json:"genre_ids"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	PosterPath       string  `json:"poster_path"`
	OriginalLanguage string  `json:"original_language"`
}

// Response models the TMDB paginated listing response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// record is the subset of an entity the feedback engine depends on.
type record struct {
	ID          int64   `validate:"gt=0"`
	Title       string  `validate:"required"`
	ReleaseDate string  `validate:"required,releasedate"`
	Rating      float64 `validate:"gte=0,lte=10"`
}

// Summary converts r into a model.Entity of category c without checking it.
func (r Result) Summary(c model.Category) model.Entity {
	title, date := r.Title, r.ReleaseDate
	if c == model.CategoryTV {
		title, date = r.Name, r.FirstAirDate
	}
	genres := make([]int, len(r.GenreIDs))
	copy(genres, r.GenreIDs)
	return model.Entity{
		ID:               r.ID,
		Title:            title,
		Category:         c,
		ReleaseDate:      date,
		GenreIDs:         genres,
		Rating:           r.VoteAverage,
		Overview:         r.Overview,
		Popularity:       r.Popularity,
		VoteCount:        r.VoteCount,
		PosterPath:       r.PosterPath,
		OriginalLanguage: r.OriginalLanguage,
	}
}

// Entity converts r into a model.Entity of category c that the feedback
// engine can score.
func (r Result) Entity(c model.Category) (model.Entity, error) {
	e := r.Summary(c)
	if err := validation.Struct(record{ID: e.ID, Title: e.Title, ReleaseDate: e.ReleaseDate, Rating: e.Rating}); err != nil {
		return model.Entity{}, fmt.Errorf("%w: id %d: %w", ErrInvalidRecord, r.ID, err)
	}
	return e, nil
}
