package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Agurato/mflix/internal/model"
)

type MovieManager interface {
	ListMovies(ctx context.Context, page int64) (*model.MovieList, error)
	SearchMovies(ctx context.Context, kind model.SearchKind, param string, page int64) (*model.MovieList, error)
	MoviesByCountry(ctx context.Context, param string) ([]model.Movie, error)
	GetMovie(ctx context.Context, movieHexID string) (*model.MovieDetail, error)
	FacetedSearch(ctx context.Context, cast, genres string, page int64) (*model.FacetResult, error)
	TopValues(ctx context.Context, field string, n int64) ([]model.Count, error)
	Configuration(ctx context.Context) (*model.Configuration, error)
}

type MovieHandler struct {
	MovieManager
}

func NewMovieHandler(mm MovieManager) *MovieHandler {
	return &MovieHandler{
		MovieManager: mm,
	}
}

// searchParams lists the query parameters of a search, by priority
var searchParams = []struct {
	name string
	kind model.SearchKind
}{
	{"text", model.SearchText},
	{"cast", model.SearchCast},
	{"genre", model.SearchGenre},
}

// GETMovies returns the first movies by number of reviews
func (mh MovieHandler) GETMovies(c *gin.Context) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := mh.MovieManager.ListMovies(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GETSearch returns the movies matching ?text=, ?cast= or ?genre=
func (mh MovieHandler) GETSearch(c *gin.Context) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		respondError(c, err)
		return
	}

	var list *model.MovieList
	for _, param := range searchParams {
		if value, ok := c.GetQuery(param.name); ok {
			list, err = mh.MovieManager.SearchMovies(c.Request.Context(), param.kind, value, page)
			break
		}
	}
	if list == nil && err == nil {
		list, err = mh.MovieManager.ListMovies(c.Request.Context(), page)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GETMoviesByCountry returns the titles of the movies made in ?countries=
func (mh MovieHandler) GETMoviesByCountry(c *gin.Context) {
	movies, err := mh.MovieManager.MoviesByCountry(c.Request.Context(), c.Query("countries"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"titles": movies})
}

// GETFacetSearch returns the movies with ?cast= and ?genres=, with their runtime and rating facets
func (mh MovieHandler) GETFacetSearch(c *gin.Context) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := mh.MovieManager.FacetedSearch(c.Request.Context(), c.Query("cast"), c.Query("genres"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"movies": result.Movies,
		"facets": gin.H{
			"runtime": result.Runtime,
			"rating":  result.Rating,
		},
		"page":          page,
		"total_results": result.Count,
	})
}

// GETMovie returns a movie and its comments
func (mh MovieHandler) GETMovie(c *gin.Context) {
	movie, err := mh.MovieManager.GetMovie(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if movie == nil {
		respondError(c, model.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movie": movie})
}

// GETTop returns the most frequent values of a movie field
func (mh MovieHandler) GETTop(c *gin.Context) {
	n, err := queryInt(c, "n", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	counts, err := mh.MovieManager.TopValues(c.Request.Context(), c.Param("field"), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"top": counts})
}

// GETConfigOptions reports the database client settings
func (mh MovieHandler) GETConfigOptions(c *gin.Context) {
	config, err := mh.MovieManager.Configuration(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

// queryInt parses an optional integer query parameter
func queryInt(c *gin.Context, name string, def int64) (int64, error) {
	value, ok := c.GetQuery(name)
	if !ok || value == "" {
		return def, nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", model.ErrValidation, name)
	}
	return i, nil
}
