package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peregrinedb/peregrine/dialect"
)

func TestPageBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  dialect.PageBuilder
		expected dialect.Page
	}{
		{"first page", dialect.PageNumber(1, 10), dialect.Page{PageNumber: 1, PageSize: 10, FirstItemIndex: 0, LastItemIndex: 9, IsFirstPage: true}},
		{"second page", dialect.PageNumber(2, 10), dialect.Page{PageNumber: 2, PageSize: 10, FirstItemIndex: 10, LastItemIndex: 19}},
		{"page index", dialect.PageIndex(2, 25), dialect.Page{PageNumber: 3, PageSize: 25, FirstItemIndex: 50, LastItemIndex: 74}},
		{"skip take", dialect.SkipTake(7, 5), dialect.Page{PageNumber: 2, PageSize: 5, FirstItemIndex: 7, LastItemIndex: 11}},
		{"take only", dialect.SkipTake(0, 5), dialect.Page{PageNumber: 1, PageSize: 5, FirstItemIndex: 0, LastItemIndex: 4, IsFirstPage: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := tt.builder.Page()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, page)
		})
	}
}

func TestPageBuildersErrors(t *testing.T) {
	for _, builder := range []dialect.PageBuilder{
		dialect.PageNumber(0, 10),
		dialect.PageNumber(1, 0),
		dialect.PageIndex(-1, 10),
		dialect.SkipTake(-1, 10),
		dialect.SkipTake(0, 0),
	} {
		_, err := builder.Page()
		assert.ErrorIs(t, err, dialect.ErrInvalidPage)
	}
}
