package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie is a document of the movies collection
type Movie struct {
	ID               primitive.ObjectID `bson:"_id" json:"_id"`
	Title            string             `bson:"title" json:"title"`
	Year             Number             `bson:"year,omitempty" json:"year,omitempty"`
	Runtime          Number             `bson:"runtime,omitempty" json:"runtime,omitempty"`
	Released         *time.Time         `bson:"released,omitempty" json:"released,omitempty"`
	Rated            string             `bson:"rated,omitempty" json:"rated,omitempty"`
	Plot             string             `bson:"plot,omitempty" json:"plot,omitempty"`
	FullPlot         string             `bson:"fullplot,omitempty" json:"fullplot,omitempty"`
	Poster           string             `bson:"poster,omitempty" json:"poster,omitempty"`
	Countries        []string           `bson:"countries,omitempty" json:"countries,omitempty"`
	Languages        []string           `bson:"languages,omitempty" json:"languages,omitempty"`
	Cast             []string           `bson:"cast,omitempty" json:"cast,omitempty"`
	Genres           []string           `bson:"genres,omitempty" json:"genres,omitempty"`
	Directors        []string           `bson:"directors,omitempty" json:"directors,omitempty"`
	Writers          []string           `bson:"writers,omitempty" json:"writers,omitempty"`
	Metacritic       Number             `bson:"metacritic,omitempty" json:"metacritic,omitempty"`
	IMDb             *IMDb              `bson:"imdb,omitempty" json:"imdb,omitempty"`
	Tomatoes         *Tomatoes          `bson:"tomatoes,omitempty" json:"tomatoes,omitempty"`
	Awards           *Awards            `bson:"awards,omitempty" json:"awards,omitempty"`
	NumMflixComments int                `bson:"num_mflix_comments,omitempty" json:"num_mflix_comments,omitempty"`

	// Only set by a text search projection
	Score float64 `bson:"score,omitempty" json:"score,omitempty"`
}

type IMDb struct {
	ID     int    `bson:"id" json:"id"`
	Rating Number `bson:"rating" json:"rating"`
	Votes  Number `bson:"votes" json:"votes"`
}

// Tomatoes holds the review-score summary
type Tomatoes struct {
	Viewer      TomatoesViewer `bson:"viewer" json:"viewer"`
	LastUpdated *time.Time     `bson:"lastUpdated,omitempty" json:"lastUpdated,omitempty"`
}

type TomatoesViewer struct {
	Rating     Number `bson:"rating" json:"rating"`
	NumReviews int    `bson:"numReviews" json:"numReviews"`
	Meter      Number `bson:"meter,omitempty" json:"meter,omitempty"`
}

type Awards struct {
	Wins        int    `bson:"wins" json:"wins"`
	Nominations int    `bson:"nominations" json:"nominations"`
	Text        string `bson:"text" json:"text"`
}

// MovieDetail is a movie joined with its comments, newest first
type MovieDetail struct {
	Movie    `bson:",inline"`
	Comments []Comment `bson:"comments" json:"comments"`
}
