package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Agurato/mflix/internal/model"
)

// GetMovies returns a page of movies matching the query.
// The total number of matching movies is only counted for the first page, and is 0 otherwise.
func (m *MongoDB) GetMovies(ctx context.Context, query model.MovieQuery) (*model.MoviePage, error) {
	params, err := buildQueryParams(query.Kind, query.Values)
	if err != nil {
		return nil, err
	}

	opt := options.Find().
		SetSort(params.Sort).
		SetSkip(query.Page * query.PerPage).
		SetLimit(query.PerPage)
	if params.Projection != nil {
		opt.SetProjection(params.Projection)
	}

	moviesCur, err := m.moviesColl.Find(ctx, params.Filter, opt)
	if err != nil {
		log.Error().Err(err).Stringer("kind", query.Kind).Msg("Unable to retrieve movies from database")
		return nil, fmt.Errorf("error while retrieving movies from DB: %w", err)
	}
	movies, err := decodeAll[model.Movie](ctx, moviesCur)
	if err != nil {
		log.Error().Err(err).Stringer("kind", query.Kind).Msg("Unable to fetch movie from database")
		return nil, fmt.Errorf("error while decoding movies from DB: %w", err)
	}

	page := &model.MoviePage{Movies: movies}
	if query.Page == 0 {
		page.Total, err = m.moviesColl.CountDocuments(ctx, params.Filter)
		if err != nil {
			log.Error().Err(err).Stringer("kind", query.Kind).Msg("Unable to count movies")
			return nil, fmt.Errorf("error while counting movies: %w", err)
		}
	}
	return page, nil
}

// GetMoviesByCountry returns the ID and title of the movies produced in one of the countries
func (m *MongoDB) GetMoviesByCountry(ctx context.Context, countries []string) ([]model.Movie, error) {
	opt := options.Find().SetProjection(bson.M{"title": 1})
	moviesCur, err := m.moviesColl.Find(ctx, bson.M{"countries": bson.M{"$in": countries}}, opt)
	if err != nil {
		log.Error().Err(err).Strs("countries", countries).Msg("Unable to retrieve movies from database")
		return nil, fmt.Errorf("error while retrieving movies by country from DB: %w", err)
	}
	movies, err := decodeAll[model.Movie](ctx, moviesCur)
	if err != nil {
		return nil, fmt.Errorf("error while decoding movies from DB: %w", err)
	}
	return movies, nil
}

// GetMovieFromID returns a movie along with its comments sorted newest first
func (m *MongoDB) GetMovieFromID(ctx context.Context, id primitive.ObjectID) (*model.MovieDetail, error) {
	movieCur, err := m.moviesColl.Aggregate(ctx, movieWithCommentsPipeline(bson.M{"_id": id}))
	if err != nil {
		log.Error().Err(err).Str("movieID", id.Hex()).Msg("Unable to retrieve movie from database")
		return nil, fmt.Errorf("error while retrieving movie from DB: %w", err)
	}
	defer movieCur.Close(ctx)

	if !movieCur.Next(ctx) {
		if err := movieCur.Err(); err != nil {
			return nil, fmt.Errorf("error while retrieving movie from DB: %w", err)
		}
		return nil, model.ErrNotFound
	}
	var movie model.MovieDetail
	if err := movieCur.Decode(&movie); err != nil {
		return nil, fmt.Errorf("error while decoding movie from DB: %w", err)
	}
	if movie.Comments == nil {
		movie.Comments = []model.Comment{}
	}
	return &movie, nil
}

// FacetedSearch returns a page of movies matching the filter, along with runtime and rating buckets
// computed on that page and the total count of matches.
// The filter must not be empty. Any database failure is reported as model.ErrResultsTooLarge.
func (m *MongoDB) FacetedSearch(ctx context.Context, filter model.FacetFilter, page, perPage int64) (*model.FacetResult, error) {
	if filter.IsEmpty() {
		return nil, model.ErrEmptyFilter
	}
	paged, counting := facetPipelines(filter, page, perPage)

	var result model.FacetResult
	if err := m.aggregateOne(ctx, paged, &result); err != nil {
		log.Error().Err(err).Msg("Faceted search failed")
		return nil, model.ErrResultsTooLarge
	}

	var count struct {
		Count int64 `bson:"count"`
	}
	if err := m.aggregateOne(ctx, counting, &count); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		log.Error().Err(err).Msg("Faceted search count failed")
		return nil, model.ErrResultsTooLarge
	}
	result.Count = count.Count

	if result.Movies == nil {
		result.Movies = []model.Movie{}
	}
	return &result, nil
}

// TopMovieValues returns the n most frequent values of a movie field
func (m *MongoDB) TopMovieValues(ctx context.Context, field string, n int64, isArray bool) ([]model.Count, error) {
	return topN(ctx, m.moviesColl, field, n, isArray)
}

// aggregateOne runs a pipeline on the movies collection and decodes its first document
func (m *MongoDB) aggregateOne(ctx context.Context, pipeline bson.A, out any) error {
	cur, err := m.moviesColl.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return err
		}
		return mongo.ErrNoDocuments
	}
	return cur.Decode(out)
}

func topN(ctx context.Context, coll Collection, field string, n int64, unwind bool) ([]model.Count, error) {
	countsCur, err := coll.Aggregate(ctx, topNPipeline(field, n, unwind))
	if err != nil {
		log.Error().Err(err).Str("field", field).Msg("Unable to aggregate counts")
		return nil, fmt.Errorf("error while counting %s: %w", field, err)
	}
	counts, err := decodeAll[model.Count](ctx, countsCur)
	if err != nil {
		return nil, fmt.Errorf("error while decoding counts of %s: %w", field, err)
	}
	return counts, nil
}
