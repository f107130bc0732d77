package dialect

import (
	"fmt"

	"github.com/peregrinedb/peregrine/utils"
)

// Page a window of rows, item indexes are 0-based and inclusive
type Page struct {
	PageNumber     int
	PageSize       int
	FirstItemIndex int
	LastItemIndex  int
	IsFirstPage    bool
}

// PageBuilder computes the page to read
type PageBuilder interface {
	Page() (Page, error)
}

// PageBuilderFunc adapts a function to PageBuilder
type PageBuilderFunc func() (Page, error)

// Page implements PageBuilder
func (f PageBuilderFunc) Page() (Page, error) { return f() }

func newPage(pageNumber, pageSize, firstItemIndex int) Page {
	return Page{
		PageNumber:     pageNumber,
		PageSize:       pageSize,
		FirstItemIndex: firstItemIndex,
		LastItemIndex:  firstItemIndex + pageSize - 1,
		IsFirstPage:    firstItemIndex == 0,
	}
}

// PageNumber pages by 1-based page number
func PageNumber(pageNumber, pageSize int) PageBuilder {
	return PageBuilderFunc(func() (Page, error) {
		if pageNumber < 1 {
			return Page{}, fmt.Errorf("%w: page number %d, must be at least 1", ErrInvalidPage, pageNumber)
		}
		if pageSize < 1 {
			return Page{}, fmt.Errorf("%w: page size %d, must be at least 1", ErrInvalidPage, pageSize)
		}
		return newPage(pageNumber, pageSize, (pageNumber-1)*pageSize), nil
	})
}

// PageIndex pages by 0-based page index
func PageIndex(pageIndex, pageSize int) PageBuilder {
	return PageBuilderFunc(func() (Page, error) {
		if pageIndex < 0 {
			return Page{}, fmt.Errorf("%w: page index %d, must not be negative", ErrInvalidPage, pageIndex)
		}
		return PageNumber(pageIndex+1, pageSize).Page()
	})
}

// SkipTake skips a number of rows then reads take rows
func SkipTake(skip, take int) PageBuilder {
	return PageBuilderFunc(func() (Page, error) {
		if skip < 0 {
			return Page{}, fmt.Errorf("%w: skip %d, must not be negative", ErrInvalidPage, skip)
		}
		if take < 1 {
			return Page{}, fmt.Errorf("%w: take %d, must be at least 1", ErrInvalidPage, take)
		}
		return newPage(skip/take+1, take, skip), nil
	})
}

func checkTake(table fmt.Stringer, take int) error {
	if take < 1 {
		return fmt.Errorf("%w: top %d rows of %v, must be at least 1", ErrInvalidPage, take, table)
	}
	return nil
}

func checkPage(table fmt.Stringer, page Page, orderBy string) error {
	if utils.IsBlank(orderBy) {
		return fmt.Errorf("%w: paging %v requires an order by", ErrInvalidPage, table)
	}
	if page.PageSize < 1 || page.FirstItemIndex < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidPage, page)
	}
	return nil
}
