package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionNavigationGuard(t *testing.T) {
	s := NewSession("s1")
	assert.Equal(t, StateSearching, s.State)

	// Forward jumps are rejected, same-step and backward are allowed.
	assert.False(t, s.CanNavigateTo(StateChoosingVariant))
	assert.False(t, s.CanNavigateTo(StateViewingResults))
	assert.True(t, s.CanNavigateTo(StateSearching))

	s.State = StateViewingResults
	assert.True(t, s.CanNavigateTo(StateChoosingVariant))
	assert.True(t, s.CanNavigateTo(StateSearching))
}

func TestSessionReset(t *testing.T) {
	s := NewSession("s1")
	s.State = StateViewingResults
	s.Search = SearchContext{Name: "анальгин", City: "Минск", Form: "таблетки"}
	s.Variants = []Variant{{Name: "Анальгин"}}
	s.TotalFound = 7
	s.Results = []GroupedRow{{Name: "Анальгин"}}
	s.Pagination = PaginationState{Page: 3, Size: 50, Total: 120, TotalPages: 3}

	s.Reset()

	assert.Equal(t, StateSearching, s.State)
	assert.Equal(t, SearchContext{}, s.Search)
	assert.Nil(t, s.Variants)
	assert.Nil(t, s.Results)
	assert.Zero(t, s.TotalFound)
	assert.Equal(t, PaginationState{Page: 1, TotalPages: 1}, s.Pagination)
}
