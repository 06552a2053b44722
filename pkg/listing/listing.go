// Package listing implements the list-view pattern shared by every collection
// endpoint: free-text search, dropdown filters, sorting and pagination.
//
// A Query is parsed once from the request and can be evaluated either against
// an in-memory slice (Apply, Paginate) or pushed into SQL (Spec.Scope,
// PageScope). Both backends filter before they paginate.
package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (Page-1)*Limit within int for every accepted limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Query holds the user-controlled inputs of a list view.
type Query struct {
	Search  string
	Filters map[string]string
	Sort    string
	Order   Order
	Page    int
	Limit   int
}

// ParseQuery reads q, sort, order, page and limit from values. Only the
// filter keys listed in filterKeys are picked up; empty values are ignored.
func ParseQuery(values url.Values, filterKeys ...string) Query {
	q := Query{
		Search:  strings.TrimSpace(values.Get("q")),
		Filters: make(map[string]string),
		Sort:    strings.TrimSpace(values.Get("sort")),
		Order:   Order(strings.ToLower(strings.TrimSpace(values.Get("order")))),
	}
	q.Page, _ = strconv.Atoi(values.Get("page"))
	q.Limit, _ = strconv.Atoi(values.Get("limit"))

	for _, key := range filterKeys {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			q.Filters[key] = v
		}
	}

	return q.Normalize()
}

// Normalize clamps page and limit and defaults the order.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Order != Asc && q.Order != Desc {
		q.Order = ""
	}
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}
	return q
}

// WithFilter returns a copy of q with key set to value. The receiver's
// filter map is not modified.
func (q Query) WithFilter(key, value string) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[key] = value
	q.Filters = filters
	return q
}

func (q Query) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.Limit
}

// TotalPages returns the number of pages needed for total rows.
func (q Query) TotalPages(total int64) int {
	q = q.Normalize()
	pages := int(total) / q.Limit
	if int(total)%q.Limit > 0 {
		pages++
	}
	return pages
}
