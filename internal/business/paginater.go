package business

import (
	"github.com/Agurato/mflix/internal/model"
)

// Paginater builds the page links of a listing. Pages are 0-indexed
type Paginater struct {
	itemsPerPage int64
}

// NewPaginater instantiates a new Paginater
func NewPaginater(itemsPerPage int64) *Paginater {
	if itemsPerPage <= 0 {
		itemsPerPage = 1
	}
	return &Paginater{
		itemsPerPage: itemsPerPage,
	}
}

// PageCount returns the number of pages needed to display total items
func (p *Paginater) PageCount(total int64) int64 {
	return (total + p.itemsPerPage - 1) / p.itemsPerPage
}

// GetPagination returns the links to display around the current page
func (p *Paginater) GetPagination(currentPage, total int64) []model.Pagination {
	lastPage := p.PageCount(total) - 1
	if lastPage < 0 {
		return nil
	}

	pages := []model.Pagination{{
		Number: 0,
		Active: currentPage == 0,
	}}
	// Dots between the first page and current-1
	if currentPage > 2 {
		pages = append(pages, model.Pagination{Dots: true})
	}
	for i := currentPage - 1; i <= currentPage+1; i++ {
		if i <= 0 || i >= lastPage {
			continue
		}
		pages = append(pages, model.Pagination{
			Number: i,
			Active: i == currentPage,
		})
	}
	// Dots between current+1 and the last page
	if currentPage < lastPage-2 {
		pages = append(pages, model.Pagination{Dots: true})
	}
	if lastPage > 0 {
		pages = append(pages, model.Pagination{
			Number: lastPage,
			Active: currentPage == lastPage,
		})
	}
	return pages
}
