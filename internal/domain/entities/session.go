package entities

import (
	"time"
)

// WizardState is one of the three linear wizard steps.
type WizardState string

const (
	// StateSearching is the initial free-text search screen.
	StateSearching WizardState = "searching"
	// StateChoosingVariant is the form/variant disambiguation screen.
	StateChoosingVariant WizardState = "choosing_variant"
	// StateViewingResults is the paginated results screen.
	StateViewingResults WizardState = "viewing_results"
)

// StepNumber maps the state to its 1-based step indicator position.
func (s WizardState) StepNumber() int {
	switch s {
	case StateChoosingVariant:
		return 2
	case StateViewingResults:
		return 3
	default:
		return 1
	}
}

// SearchContext is the fixed set of query parameters replayed unchanged on
// every paginated request until the user starts over or re-picks a variant.
type SearchContext struct {
	Name         string `json:"name"`
	City         string `json:"city"`
	Form         string `json:"form"`
	Manufacturer string `json:"manufacturer"`
	Country      string `json:"country"`
	SearchID     string `json:"search_id,omitempty"`
}

// Session holds one wizard instance. It is the only mutable state in the
// gateway and is always read and written through a SessionStore.
type Session struct {
	ID     string      `json:"id"`
	State  WizardState `json:"state"`
	Search SearchContext `json:"search"`

	// Variant list cached from the initial search so that navigating back
	// from the results redisplays it without a new upstream request.
	Variants   []Variant `json:"variants,omitempty"`
	TotalFound int       `json:"total_found"`

	Results    []GroupedRow    `json:"results,omitempty"`
	Pagination PaginationState `json:"pagination"`

	// PageSeq is bumped each time a page fetch is issued; a response is
	// applied only while its sequence number is still the latest, so a
	// superseded response is discarded instead of clobbering newer state.
	PageSeq uint64 `json:"page_seq"`

	UserID    int64     `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns a fresh session in the initial state.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         id,
		State:      StateSearching,
		Pagination: PaginationState{Page: 1, TotalPages: 1},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Reset clears everything back to the initial search screen.
func (s *Session) Reset() {
	s.State = StateSearching
	s.Search = SearchContext{}
	s.Variants = nil
	s.TotalFound = 0
	s.Results = nil
	s.Pagination = PaginationState{Page: 1, TotalPages: 1}
}

// CanNavigateTo reports whether a step-indicator jump to target is allowed:
// backward and same-step navigation only, never forward.
func (s *Session) CanNavigateTo(target WizardState) bool {
	return target.StepNumber() <= s.State.StepNumber()
}
