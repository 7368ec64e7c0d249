package infrastructure

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Agurato/mflix/internal/model"
)

// QueryParams holds the filter, projection and sort order of a movie search
type QueryParams struct {
	Filter     bson.M
	Projection bson.M
	Sort       bson.D
}

// defaultSort orders movies by number of viewer reviews, most reviewed first
var defaultSort = bson.D{{Key: "tomatoes.viewer.numReviews", Value: -1}}

// textSearchQuery matches the text index and sorts by relevance
func textSearchQuery(text string) QueryParams {
	return QueryParams{
		Filter:     bson.M{"$text": bson.M{"$search": text}},
		Projection: bson.M{"score": bson.M{"$meta": "textScore"}},
		Sort:       bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}},
	}
}

func castSearchQuery(cast []string) QueryParams {
	return QueryParams{
		Filter: bson.M{"cast": bson.M{"$in": cast}},
		Sort:   defaultSort,
	}
}

func genreSearchQuery(genres []string) QueryParams {
	return QueryParams{
		Filter: bson.M{"genres": bson.M{"$in": genres}},
		Sort:   defaultSort,
	}
}

// buildQueryParams returns the query matching the search kind
func buildQueryParams(kind model.SearchKind, values []string) (QueryParams, error) {
	switch kind {
	case model.SearchNone:
		return QueryParams{Filter: bson.M{}, Sort: defaultSort}, nil
	case model.SearchText:
		var text string
		if len(values) > 0 {
			text = values[0]
		}
		return textSearchQuery(text), nil
	case model.SearchCast:
		return castSearchQuery(values), nil
	case model.SearchGenre:
		return genreSearchQuery(values), nil
	}
	return QueryParams{}, model.ErrInvalidSearchKind
}

// facetMatch builds the $match document of a faceted search
func facetMatch(filter model.FacetFilter) bson.M {
	match := bson.M{}
	if len(filter.Cast) > 0 {
		match["cast"] = bson.M{"$in": filter.Cast}
	}
	if len(filter.Genres) > 0 {
		match["genres"] = bson.M{"$in": filter.Genres}
	}
	return match
}

var (
	runtimeBoundaries    = bson.A{0, 60, 90, 120, 180}
	metacriticBoundaries = bson.A{0, 50, 70, 90, 100}
)

func bucketStage(groupBy string, boundaries bson.A) bson.D {
	return bson.D{{Key: "$bucket", Value: bson.M{
		"groupBy":    groupBy,
		"boundaries": boundaries,
		"default":    "other",
		"output":     bson.M{"count": bson.M{"$sum": 1}},
	}}}
}

// facetPipelines returns the paged faceted pipeline and the pipeline counting all the matches
func facetPipelines(filter model.FacetFilter, page, perPage int64) (paged, counting bson.A) {
	matchStage := bson.D{{Key: "$match", Value: facetMatch(filter)}}
	sortStage := bson.D{{Key: "$sort", Value: defaultSort}}

	counting = bson.A{matchStage, sortStage, bson.D{{Key: "$count", Value: "count"}}}

	facetStage := bson.D{{Key: "$facet", Value: bson.M{
		"runtime": bson.A{bucketStage("$runtime", runtimeBoundaries)},
		"rating":  bson.A{bucketStage("$metacritic", metacriticBoundaries)},
		"movies":  bson.A{bson.D{{Key: "$addFields", Value: bson.M{"title": "$title"}}}},
	}}}

	paged = bson.A{
		matchStage,
		sortStage,
		bson.D{{Key: "$skip", Value: page * perPage}},
		bson.D{{Key: "$limit", Value: perPage}},
		facetStage,
	}
	return paged, counting
}

// topNPipeline counts the documents per value of field, keeping the n biggest groups.
// Array fields are unwound so each element is counted.
func topNPipeline(field string, n int64, unwind bool) bson.A {
	pipeline := bson.A{}
	if unwind {
		pipeline = append(pipeline, bson.D{{Key: "$unwind", Value: "$" + field}})
	}
	return append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: n}},
	)
}

// movieWithCommentsPipeline matches a movie and joins its comments, newest first
func movieWithCommentsPipeline(filter bson.M) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "comments",
			"let":  bson.M{"id": "$_id"},
			"pipeline": bson.A{
				bson.D{{Key: "$match", Value: bson.M{"$expr": bson.M{"$eq": bson.A{"$movie_id", "$$id"}}}}},
				bson.D{{Key: "$sort", Value: bson.M{"date": -1}}},
			},
			"as": "comments",
		}}},
	}
}
