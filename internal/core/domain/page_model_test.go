package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name          string
		page          domain.Page
		length        int
		expectedStart int
		expectedEnd   int
	}{
		{"defaults", domain.NewPage(0, 0), 25, 0, 10},
		{"second page", domain.NewPage(2, 10), 25, 10, 20},
		{"last partial page", domain.NewPage(3, 10), 25, 20, 25},
		{"past the end", domain.NewPage(4, 10), 25, 25, 25},
		{"empty list", domain.NewPage(1, 10), 0, 0, 0},
		{"huge page number", domain.NewPage(1<<62, 8), 5, 5, 5},
		{"huge size", domain.NewPage(2, math.MaxInt), 5, 5, 5},
		{"max page number", domain.NewPage(math.MaxInt, math.MaxInt), 5, 5, 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.page.Bounds(tt.length)
			require.Equal(t, tt.expectedStart, start)
			require.Equal(t, tt.expectedEnd, end)
		})
	}
}

func TestPageOffset(t *testing.T) {
	require.Zero(t, domain.NewPage(1, 10).Offset())
	require.Equal(t, 20, domain.NewPage(3, 10).Offset())
	require.Equal(t, math.MaxInt, domain.NewPage(1<<62, 8).Offset())
	require.Zero(t, domain.Page{Number: 5}.Offset())
}
