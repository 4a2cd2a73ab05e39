package book

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a book is not found or a search matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for malformed or out-of-range input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorage wraps failures of the underlying store.
	ErrStorage = errors.New("storage failure")
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Book represents a book entity.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   *int   `json:"year"`
}

// Page defines pagination for listing books.
type Page struct {
	Offset int
	Limit  int
}

// DefaultPage is used when the caller supplies neither offset nor limit.
func DefaultPage() Page {
	return Page{Offset: 0, Limit: DefaultLimit}
}

// Validate rejects negative values and caps the limit at MaxLimit.
func (p Page) Validate() (Page, error) {
	if p.Offset < 0 {
		return p, fmt.Errorf("%w: offset must be greater than or equal to 0", ErrInvalidInput)
	}
	if p.Limit < 0 {
		return p, fmt.Errorf("%w: limit must be greater than or equal to 0", ErrInvalidInput)
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}
