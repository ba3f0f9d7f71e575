package models

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidArgument = fmt.Errorf("invalid argument")

const (
	// DefaultPageSize is used when the caller does not pass a size parameter.
	DefaultPageSize = 20
	// MaxPageSize bounds a single listing response.
	MaxPageSize = 1000
)

type SortField string

const (
	SortByAmount SortField = "amount"
	SortByID     SortField = "id"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// PageRequest describes one page of a listing: zero-based page number, page
// size and ordering.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    SortField
	Direction SortDirection
}

// DefaultPageRequest returns the listing parameters used when the caller
// passes none: first page of DefaultPageSize cards, amount ascending.
func DefaultPageRequest() PageRequest {
	return PageRequest{
		Page:      0,
		Size:      DefaultPageSize,
		SortBy:    SortByAmount,
		Direction: Ascending,
	}
}

// ParsePageRequest builds a PageRequest from query parameters `page`, `size`
// and `sort=field,direction`, filling in defaults for absent parameters and
// validating the result.
func ParsePageRequest(q url.Values) (PageRequest, error) {
	p := DefaultPageRequest()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("page %q is not a number: %w", v, ErrInvalidArgument)
		}
		p.Page = n
	}

	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("size %q is not a number: %w", v, ErrInvalidArgument)
		}
		p.Size = n
	}

	if v := q.Get("sort"); v != "" {
		field, direction, found := strings.Cut(v, ",")
		p.SortBy = SortField(field)
		if found {
			p.Direction = SortDirection(strings.ToLower(direction))
		}
	}

	if err := p.Validate(); err != nil {
		return p, err
	}

	return p, nil
}

// Validate checks the request against the listing contract. A page beyond the
// end of the data is not an error; it just yields an empty page.
func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return fmt.Errorf("page must not be negative: %w", ErrInvalidArgument)
	}
	if p.Size < 1 {
		return fmt.Errorf("size must be positive: %w", ErrInvalidArgument)
	}
	if p.Size > MaxPageSize {
		return fmt.Errorf("size exceeds %d: %w", MaxPageSize, ErrInvalidArgument)
	}
	switch p.SortBy {
	case SortByAmount, SortByID:
	default:
		return fmt.Errorf("unknown sort field %q: %w", p.SortBy, ErrInvalidArgument)
	}
	switch p.Direction {
	case Ascending, Descending:
	default:
		return fmt.Errorf("unknown sort direction %q: %w", p.Direction, ErrInvalidArgument)
	}
	return nil
}

// Offset is the number of records preceding the requested page. A page so
// large that page*size would overflow is past the end of any data set, so it
// saturates instead of wrapping negative.
func (p PageRequest) Offset() int {
	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Less orders two cards by the requested sort key. Cards comparing equal on
// the primary key fall back to id ascending, so the resulting order is total
// and pagination is deterministic for an unchanged data set.
func (p PageRequest) Less(a, b CashCard) bool {
	switch p.SortBy {
	case SortByID:
		if a.ID != b.ID {
			if p.Direction == Descending {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
	default:
		if cmp := a.Amount.Cmp(b.Amount); cmp != 0 {
			if p.Direction == Descending {
				return cmp > 0
			}
			return cmp < 0
		}
	}
	return a.ID < b.ID
}

// Page is one page of an owner's cards together with the owner's total record
// count, which is independent of pagination.
type Page struct {
	Items      []CashCard
	Page       int
	Size       int
	TotalCount int
}
