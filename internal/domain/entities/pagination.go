package entities

// PaginationState tracks the server-reported page window. Fields are only
// ever assigned from a successful page-fetch response; nothing here is
// computed locally or incremented speculatively.
type PaginationState struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PageEllipsis marks a gap in a generated page-number sequence.
const PageEllipsis = -1

// PageNumbers produces the page-button sequence for a pager: page 1, a gap
// marker when the window is detached from it, the window around current,
// a gap marker when detached from the end, and the last page. Guarantees
// no duplicate numbers and no adjacent gap markers.
func PageNumbers(current, total int) []int {
	if total <= 1 {
		return []int{1}
	}

	pages := []int{1}

	if current > 3 {
		pages = append(pages, PageEllipsis)
	}

	lo := current - 1
	if lo < 2 {
		lo = 2
	}
	hi := current + 1
	if hi > total-1 {
		hi = total - 1
	}
	for p := lo; p <= hi; p++ {
		pages = append(pages, p)
	}

	if current < total-2 {
		pages = append(pages, PageEllipsis)
	}

	return append(pages, total)
}
