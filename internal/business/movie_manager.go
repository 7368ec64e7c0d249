package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Agurato/mflix/internal/model"
)

const (
	defaultTopN = 10
	maxTopN     = 100
)

// topFields lists the fields TopValues accepts, and whether they hold arrays
var topFields = map[string]bool{
	"cast":      true,
	"countries": true,
	"directors": true,
	"genres":    true,
	"languages": true,
	"writers":   true,
	"rated":     false,
	"year":      false,
}

type MovieStorer interface {
	GetMovies(ctx context.Context, query model.MovieQuery) (*model.MoviePage, error)
	GetMoviesByCountry(ctx context.Context, countries []string) ([]model.Movie, error)
	GetMovieFromID(ctx context.Context, id primitive.ObjectID) (*model.MovieDetail, error)
	FacetedSearch(ctx context.Context, filter model.FacetFilter, page, perPage int64) (*model.FacetResult, error)
	TopMovieValues(ctx context.Context, field string, n int64, isArray bool) ([]model.Count, error)
	GetConfiguration(ctx context.Context) (*model.Configuration, error)
}

type MovieManager struct {
	MovieStorer
	Filterer
	paginater     *Paginater
	moviesPerPage int64
}

func NewMovieManager(ms MovieStorer, f Filterer, moviesPerPage int64) *MovieManager {
	return &MovieManager{
		MovieStorer:   ms,
		Filterer:      f,
		paginater:     NewPaginater(moviesPerPage),
		moviesPerPage: moviesPerPage,
	}
}

// ListMovies returns a page of movies sorted by number of reviews
func (mm MovieManager) ListMovies(ctx context.Context, page int64) (*model.MovieList, error) {
	return mm.listMovies(ctx, model.SearchNone, nil, page)
}

// SearchMovies returns a page of movies matching a text search, cast members or genres.
// Cast and genres are comma separated.
func (mm MovieManager) SearchMovies(ctx context.Context, kind model.SearchKind, param string, page int64) (*model.MovieList, error) {
	var values []string
	switch kind {
	case model.SearchText:
		if text := strings.TrimSpace(param); text != "" {
			values = []string{text}
		}
	case model.SearchCast:
		values = mm.Filterer.SplitList(param)
	case model.SearchGenre:
		values = mm.Filterer.NormalizeGenres(mm.Filterer.SplitList(param))
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, model.ErrInvalidSearchKind)
	}
	if len(values) == 0 {
		return nil, model.ErrEmptyFilter
	}
	return mm.listMovies(ctx, kind, values, page)
}

func (mm MovieManager) listMovies(ctx context.Context, kind model.SearchKind, values []string, page int64) (*model.MovieList, error) {
	if page < 0 {
		page = 0
	}
	moviePage, err := mm.MovieStorer.GetMovies(ctx, model.MovieQuery{
		Kind:    kind,
		Values:  values,
		Page:    page,
		PerPage: mm.moviesPerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("could not list movies: %w", err)
	}

	filters := map[string]any{}
	if kind != model.SearchNone {
		filters[kind.String()] = values
	}
	return &model.MovieList{
		Movies:         moviePage.Movies,
		Page:           page,
		Filters:        filters,
		EntriesPerPage: mm.moviesPerPage,
		TotalResults:   moviePage.Total,
		Pages:          mm.paginater.GetPagination(page, moviePage.Total),
	}, nil
}

// MoviesByCountry returns the titles of the movies made in any of the comma separated countries.
// ISO 3166 codes are accepted along with country names.
func (mm MovieManager) MoviesByCountry(ctx context.Context, param string) ([]model.Movie, error) {
	countries := mm.Filterer.NormalizeCountries(mm.Filterer.SplitList(param))
	if len(countries) == 0 {
		return nil, model.ErrEmptyFilter
	}
	return mm.MovieStorer.GetMoviesByCountry(ctx, countries)
}

// GetMovie returns a movie and its comments from its hexadecimal ID.
// A malformed or unknown ID returns nil without error.
func (mm MovieManager) GetMovie(ctx context.Context, movieHexID string) (*model.MovieDetail, error) {
	movieID, err := primitive.ObjectIDFromHex(movieHexID)
	if err != nil {
		log.Debug().Str("id", movieHexID).Msg("Malformed movie ID")
		return nil, nil
	}
	movie, err := mm.MovieStorer.GetMovieFromID(ctx, movieID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get movie from ID '%s': %w", movieHexID, err)
	}
	return movie, nil
}

// FacetedSearch returns a page of movies with the given cast members and genres,
// along with their runtime and rating buckets
func (mm MovieManager) FacetedSearch(ctx context.Context, cast, genres string, page int64) (*model.FacetResult, error) {
	if page < 0 {
		page = 0
	}
	filter := model.FacetFilter{
		Cast:   mm.Filterer.SplitList(cast),
		Genres: mm.Filterer.NormalizeGenres(mm.Filterer.SplitList(genres)),
	}
	return mm.MovieStorer.FacetedSearch(ctx, filter, page, mm.moviesPerPage)
}

// TopValues returns the n most frequent values of a movie field
func (mm MovieManager) TopValues(ctx context.Context, field string, n int64) ([]model.Count, error) {
	isArray, ok := topFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: cannot group movies by '%s'", model.ErrValidation, field)
	}
	if n <= 0 {
		n = defaultTopN
	}
	n = min(n, maxTopN)
	return mm.MovieStorer.TopMovieValues(ctx, field, n, isArray)
}

// Configuration reports the settings of the database client
func (mm MovieManager) Configuration(ctx context.Context) (*model.Configuration, error) {
	return mm.MovieStorer.GetConfiguration(ctx)
}
