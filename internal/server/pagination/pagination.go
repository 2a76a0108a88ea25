// Package pagination slices ordered collections into fixed-size, 1-indexed pages.
package pagination

import "strconv"

// DefaultPageSize is used when the configured size is not positive.
const DefaultPageSize = 2

// Page selects one window of a collection.
type Page struct {
	Number int
	Size   int
}

// New returns a Page with pageNumber and pageSize normalised:
// a non-positive number becomes 1, a non-positive size becomes DefaultPageSize.
func New(pageNumber, pageSize int) Page {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return Page{Number: pageNumber, Size: pageSize}
}

// ParseNumber converts a raw query value to a page number.
// Empty, unparsable and non-positive values yield 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Offset is the index of the first element of the page. It is only
// meaningful for pages that exist; Window checks that first.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Window returns the elements of items that fall on page p, in stored order.
// A page past the end yields an empty, non-nil slice.
func Window[T any](items []T, p Page) []T {
	p = New(p.Number, p.Size)

	// compare in page units so huge page numbers cannot overflow Offset
	if p.Number-1 >= pageCount(len(items), p.Size) {
		return []T{}
	}
	start := p.Offset()
	end := len(items)
	if end-start > p.Size {
		end = start + p.Size
	}
	return items[start:end]
}

func pageCount(n, size int) int {
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}
