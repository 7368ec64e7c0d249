package business

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/pariz/gountries"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KnownGenres lists the genres present in the movies collection
var KnownGenres = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime", "Documentary",
	"Drama", "Family", "Fantasy", "Film-Noir", "History", "Horror", "Music", "Musical",
	"Mystery", "News", "Reality-TV", "Romance", "Sci-Fi", "Short", "Sport", "Talk-Show",
	"Thriller", "War", "Western",
}

// Filterer normalizes the search inputs sent by clients
type Filterer interface {
	SplitList(param string) []string
	NormalizeGenres(genres []string) []string
	NormalizeCountries(countries []string) []string
}

type FiltererWrapper struct {
	genres     []string
	countries  *gountries.Query
	titleCaser cases.Caser
}

func NewFiltererWrapper() *FiltererWrapper {
	return &FiltererWrapper{
		genres:     KnownGenres,
		countries:  gountries.New(),
		titleCaser: cases.Title(language.English),
	}
}

// SplitList splits a comma separated parameter, dropping blanks and duplicates
func (f *FiltererWrapper) SplitList(param string) []string {
	items := lo.Map(strings.Split(param, ","), func(item string, _ int) string {
		return strings.Join(strings.Fields(item), " ")
	})
	return lo.Uniq(lo.Filter(items, func(item string, _ int) bool {
		return item != ""
	}))
}

// NormalizeGenres maps every genre to the closest known genre.
// Genres too far from any known genre are title-cased and kept as is.
func (f *FiltererWrapper) NormalizeGenres(genres []string) []string {
	return lo.Uniq(lo.Map(genres, func(genre string, _ int) string {
		return f.closestGenre(genre)
	}))
}

func (f *FiltererWrapper) closestGenre(genre string) string {
	simplified := simplifyGenre(genre)
	best, bestDistance := "", -1
	for _, known := range f.genres {
		distance := levenshtein.ComputeDistance(simplified, simplifyGenre(known))
		if bestDistance == -1 || distance < bestDistance {
			best, bestDistance = known, distance
		}
	}
	if bestDistance == 0 || (bestDistance > 0 && bestDistance <= len(simplified)/3) {
		return best
	}
	return f.titleCaser.String(genre)
}

// simplifyGenre lowercases a genre and drops everything but letters
func simplifyGenre(genre string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(genre))
}

// NormalizeCountries adds the common name of every country given as an ISO 3166 code
func (f *FiltererWrapper) NormalizeCountries(countries []string) []string {
	var normalized []string
	for _, country := range countries {
		normalized = append(normalized, country)
		if len(country) != 2 && len(country) != 3 {
			continue
		}
		if found, err := f.countries.FindCountryByAlpha(country); err == nil && found.Name.Common != "" {
			normalized = append(normalized, found.Name.Common)
		}
	}
	return lo.Uniq(normalized)
}
