package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	p := NormalizePage(0, 0)
	require.Equal(t, 1, p.Number)
	require.Equal(t, defaultPageSize, p.Size)
	require.Equal(t, 0, p.Offset())

	p = NormalizePage(3, 25)
	require.Equal(t, 50, p.Offset())

	p = NormalizePage(1, 5000)
	require.Equal(t, maxPageSize, p.Size)

	p = NormalizePage(-4, -1)
	require.Equal(t, 1, p.Number)
	require.Equal(t, defaultPageSize, p.Size)
}

func TestPageTotalPages(t *testing.T) {
	p := Page{Number: 1, Size: 20}
	require.Equal(t, 0, p.TotalPages(0))
	require.Equal(t, 1, p.TotalPages(1))
	require.Equal(t, 1, p.TotalPages(20))
	require.Equal(t, 2, p.TotalPages(21))
	require.Equal(t, 5, p.TotalPages(100))
}

func TestLikePatternEscapesMetacharacters(t *testing.T) {
	require.Equal(t, "%john%", likePattern("john"))
	require.Equal(t, `%100\%%`, likePattern("100%"))
	require.Equal(t, `%a\_b%`, likePattern("a_b"))
	require.Equal(t, `%c\\d%`, likePattern(`c\d`))
}
