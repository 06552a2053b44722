package listing

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidFilter is reported by typed filters whose value does not parse
// as the column type. The query is not sent to the database.
var ErrInvalidFilter = errors.New("invalid filter value")

// FilterFunc narrows db by a single filter value.
type FilterFunc func(db *gorm.DB, value string) *gorm.DB

// Spec whitelists the columns a Query may touch when it is pushed into SQL.
type Spec struct {
	SearchColumns []string
	Filters       map[string]FilterFunc
	// Sorts map a sort key to a column expression.
	Sorts        map[string]string
	DefaultSort  string
	DefaultOrder Order
	// TieBreaker is appended to ORDER BY so pages are stable.
	TieBreaker string
}

// Equals matches rows whose column equals the filter value.
func Equals(column string) FilterFunc {
	return func(db *gorm.DB, value string) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

// UUIDEquals matches rows whose uuid column equals the filter value.
func UUIDEquals(column string) FilterFunc {
	return func(db *gorm.DB, value string) *gorm.DB {
		id, err := uuid.Parse(value)
		if err != nil {
			db.AddError(fmt.Errorf("%w %q: not an id", ErrInvalidFilter, value))
			return db
		}
		return db.Where(column+" = ?", id)
	}
}

// IntEquals matches rows whose integer column equals the filter value.
func IntEquals(column string) FilterFunc {
	return func(db *gorm.DB, value string) *gorm.DB {
		n, err := strconv.Atoi(value)
		if err != nil {
			db.AddError(fmt.Errorf("%w %q: not a number", ErrInvalidFilter, value))
			return db
		}
		return db.Where(column+" = ?", n)
	}
}

// ArrayContains matches rows whose array column holds the filter value.
func ArrayContains(column string) FilterFunc {
	return func(db *gorm.DB, value string) *gorm.DB {
		return db.Where("? = ANY("+column+")", value)
	}
}

// FilterKeys lists the filter keys accepted by s, for ParseQuery.
func (s Spec) FilterKeys() []string {
	keys := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Scope applies the search and filter predicates of q. It does not order or
// paginate, so the same scope serves both the count and the page query.
func (s Spec) Scope(q Query) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search := strings.TrimSpace(q.Search); search != "" && len(s.SearchColumns) > 0 {
			pattern := "%" + escapeLike(search) + "%"
			clauses := make([]string, len(s.SearchColumns))
			args := make([]interface{}, len(s.SearchColumns))
			for i, column := range s.SearchColumns {
				clauses[i] = column + " ILIKE ?"
				args[i] = pattern
			}
			db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}

		keys := make([]string, 0, len(q.Filters))
		for k := range q.Filters {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, key := range keys {
			filter, ok := s.Filters[key]
			value := q.Filters[key]
			if !ok || value == "" {
				continue
			}
			db = filter(db, value)
		}

		return db
	}
}

// PageScope orders by the requested (or default) sort column and applies
// LIMIT/OFFSET.
func (s Spec) PageScope(q Query) func(*gorm.DB) *gorm.DB {
	q = q.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		column, ok := s.Sorts[q.Sort]
		if !ok {
			column = s.Sorts[s.DefaultSort]
		}

		order := q.Order
		if order == "" {
			order = s.DefaultOrder
		}
		if order == "" {
			order = Asc
		}

		if column != "" {
			db = db.Order(column + " " + strings.ToUpper(string(order)))
		}
		if s.TieBreaker != "" && s.TieBreaker != column {
			db = db.Order(s.TieBreaker)
		}

		return db.Limit(q.Limit).Offset(q.Offset())
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
