package domain

import "math"

type Page struct {
	Number int
	Size   int
}

func NewPage(pageNumber, pageSize int) Page {
	pNumber := 1
	if pageNumber > 0 {
		pNumber = pageNumber
	}

	pSize := 10
	if pageSize > 0 {
		pSize = pageSize
	}

	return Page{
		Number: pNumber,
		Size:   pSize,
	}
}

// Offset returns the index of the first item of the page. Pages too far to be
// addressed by an int start at math.MaxInt, past the end of any list.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

// Bounds returns the start and end indexes of the page in a list of the given
// length.
func (p Page) Bounds(length int) (int, int) {
	start := p.Offset()
	if start > length {
		start = length
	}
	end := length
	if p.Size > 0 && p.Size < length-start {
		end = start + p.Size
	}
	return start, end
}
