// Package feedback compares a guessed title against the round's target and
// reports, attribute by attribute, how close the guess is.
//
// Every function in this package is pure: it reads only its arguments, never
// blocks, and is safe for concurrent use.
package feedback

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/okian/cinedle/internal/domain/model"
)

// RatingTolerance is the largest absolute rating difference still reported as Partial.
const RatingTolerance = 0.5

// ratingEpsilon absorbs binary float noise so that e.g. 6.9 vs 6.4 sits on the boundary.
const ratingEpsilon = 1e-9

// ErrMalformedDate is returned by ParseYear when no leading year can be read.
var ErrMalformedDate = errors.New("malformed release date")

// Result is the attribute-by-attribute outcome of one comparison.
type Result struct {
	Year     Signal
	Genres   Signal
	Rating   Signal
	Director Capability
	Stars    Capability
	Type     model.Category
}

// Compare evaluates guessed against target. It never fails for entities whose
// release dates pass ParseYear.
func Compare(guessed, target model.Entity) Result {
	return Result{
		Year:     CompareYear(guessed.ReleaseDate, target.ReleaseDate),
		Genres:   CompareGenres(guessed.GenreIDs, target.GenreIDs),
		Rating:   CompareRating(guessed.Rating, target.Rating),
		Director: Unsupported,
		Stars:    Unsupported,
		Type:     categoryOf(target),
	}
}

func categoryOf(e model.Entity) model.Category {
	if e.Category == "" {
		return model.CategoryMovie
	}
	return e.Category
}

// CompareYear reports Exact for equal release years, Partial when the guess
// is later than the target and None when it is earlier.
func CompareYear(guessedDate, targetDate string) Signal {
	g, _ := ParseYear(guessedDate)
	t, _ := ParseYear(targetDate)
	switch {
	case g == t:
		return Exact
	case g > t:
		return Partial
	default:
		return None
	}
}

// ParseYear reads the leading year of a YYYY-MM-DD style date. Years compare
// numerically, so "0999" and "999" are the same year.
func ParseYear(date string) (int, error) {
	prefix, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	if prefix == "" {
		return 0, ErrMalformedDate
	}
	year, err := strconv.Atoi(prefix)
	if err != nil || year < 0 {
		return 0, ErrMalformedDate
	}
	return year, nil
}

// CompareGenres reports how much of the target's genre set the guess covers.
// Covering every target genre is Exact even when the guess carries extras.
// A target with no genres is always covered.
func CompareGenres(guessed, target []int) Signal {
	have := make(map[int]struct{}, len(guessed))
	for _, g := range guessed {
		have[g] = struct{}{}
	}

	want := make(map[int]struct{}, len(target))
	matched := 0
	for _, t := range target {
		if _, dup := want[t]; dup {
			continue
		}
		want[t] = struct{}{}
		if _, ok := have[t]; ok {
			matched++
		}
	}

	switch {
	case matched == len(want):
		return Exact
	case matched > 0:
		return Partial
	default:
		return None
	}
}

// CompareRating reports Exact for equal ratings and Partial when they differ
// by at most RatingTolerance in either direction.
func CompareRating(guessed, target float64) Signal {
	if guessed == target {
		return Exact
	}
	if math.Abs(guessed-target) <= RatingTolerance+ratingEpsilon {
		return Partial
	}
	return None
}
