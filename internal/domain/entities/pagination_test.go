package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNumbers(t *testing.T) {
	e := PageEllipsis

	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"single page", 1, 1, []int{1}},
		{"two pages", 1, 2, []int{1, 2}},
		{"first of many", 1, 10, []int{1, 2, e, 10}},
		{"middle of many", 5, 10, []int{1, e, 4, 5, 6, e, 10}},
		{"near start", 3, 10, []int{1, 2, 3, 4, e, 10}},
		{"near end", 8, 10, []int{1, e, 7, 8, 9, 10}},
		{"last of many", 10, 10, []int{1, e, 9, 10}},
		{"three pages middle", 2, 3, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageNumbers(tt.current, tt.total))
		})
	}
}

func TestPageNumbersNoAdjacentRepeats(t *testing.T) {
	for total := 1; total <= 25; total++ {
		for current := 1; current <= total; current++ {
			pages := PageNumbers(current, total)
			for i := 1; i < len(pages); i++ {
				assert.NotEqual(t, pages[i-1], pages[i],
					"current=%d total=%d produced adjacent repeats: %v", current, total, pages)
			}
		}
	}
}
