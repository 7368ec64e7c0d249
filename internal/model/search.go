package model

// SearchKind selects how GetMovies builds its filter
type SearchKind int

const (
	SearchNone SearchKind = iota
	SearchText
	SearchCast
	SearchGenre
)

func (k SearchKind) String() string {
	switch k {
	case SearchText:
		return "text"
	case SearchCast:
		return "cast"
	case SearchGenre:
		return "genre"
	default:
		return "none"
	}
}

// MovieQuery describes a paginated movie listing
type MovieQuery struct {
	Kind    SearchKind
	Values  []string
	Page    int64
	PerPage int64
}

// MoviePage is a page of movies. Total is only computed for the first page
type MoviePage struct {
	Movies []Movie
	Total  int64
}

// MovieList is the listing sent to clients
type MovieList struct {
	Movies         []Movie        `json:"movies"`
	Page           int64          `json:"page"`
	Filters        map[string]any `json:"filters"`
	EntriesPerPage int64          `json:"entries_per_page"`
	TotalResults   int64          `json:"total_results"`
	Pages          []Pagination   `json:"pagination,omitempty"`
}

// FacetFilter restricts a faceted search
type FacetFilter struct {
	Cast   []string
	Genres []string
}

// IsEmpty returns true if no criterion is set
func (f FacetFilter) IsEmpty() bool {
	return len(f.Cast) == 0 && len(f.Genres) == 0
}

// Bucket is one group of a $bucket stage. ID is the lower boundary or "other"
type Bucket struct {
	ID    any   `bson:"_id" json:"_id"`
	Count int64 `bson:"count" json:"count"`
}

// FacetResult combines the paged movies, the runtime and rating buckets, and the total count
type FacetResult struct {
	Movies  []Movie  `bson:"movies" json:"movies"`
	Runtime []Bucket `bson:"runtime" json:"runtime"`
	Rating  []Bucket `bson:"rating" json:"rating"`
	Count   int64    `bson:"count" json:"count"`
}

// Count is the number of documents sharing the same key
type Count struct {
	Key   any   `bson:"_id" json:"_id"`
	Count int64 `bson:"count" json:"count"`
}

// Pagination represents a pagination display parameters
type Pagination struct {
	Number int64 `json:"number"`
	Active bool  `json:"active,omitempty"`
	Dots   bool  `json:"dots,omitempty"`
}
