package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("entity not found")

// Specification describes a query as plain data: equality filters, related
// entities to eagerly load, and an optional ordering. Each backend translates
// it into its native query form, so callers never build SQL themselves.
type Specification struct {
	Filters    []Filter
	Expansions []string
	Ordering   *Ordering
}

type Filter struct {
	Field string
	Value any
}

type Ordering struct {
	Field      string
	Descending bool
}

func NewSpecification() Specification {
	return Specification{}
}

func (s Specification) Where(field string, value any) Specification {
	s.Filters = append(s.Filters, Filter{Field: field, Value: value})
	return s
}

func (s Specification) Expand(relations ...string) Specification {
	s.Expansions = append(s.Expansions, relations...)
	return s
}

func (s Specification) OrderBy(field string) Specification {
	s.Ordering = &Ordering{Field: field}
	return s
}

func (s Specification) OrderByDesc(field string) Specification {
	s.Ordering = &Ordering{Field: field, Descending: true}
	return s
}

func (s Specification) HasExpansion(relation string) bool {
	for _, e := range s.Expansions {
		if e == relation {
			return true
		}
	}
	return false
}

// Repository is the generic persistence contract, parameterized by entity and
// key type. Reads execute immediately; Add, Update and Delete only buffer the
// mutation on the owning unit of work until Commit.
type Repository[T any, K comparable] interface {
	Get(ctx context.Context, key K) (*T, error)
	GetWithSpec(ctx context.Context, spec Specification) (*T, error)
	ListWithSpec(ctx context.Context, spec Specification) ([]*T, error)
	Add(entity *T)
	Update(entity *T)
	Delete(entity *T)
}
