// Package crud defines the generic persistence contracts used by every entity
// service: a Mapper that talks to storage, a TxManager that scopes work in a
// transaction, and the Service that combines them.
package crud

import (
	"context"
	"encoding/json"
)

// Page size bounds applied by NewPageRequest.
const (
	DefaultPageSize = 10
	MaxPageSize     = 500
)

// Filter is a loosely-typed column/value condition. Keys are column names.
type Filter map[string]any

// PageRequest selects one page of a listing. Number starts at 1.
type PageRequest struct {
	Number int
	Size   int
}

// NewPageRequest normalises number and size into a usable request.
func NewPageRequest(number, size int) PageRequest {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageRequest{Number: number, Size: size}
}

// Offset is the number of rows skipped before the page.
func (p PageRequest) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Page is one page of a listing together with the total number of matches.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int64
}

// PageNumber implements result.Pager.
func (p Page[T]) PageNumber() int { return p.Number }

// PageSize implements result.Pager.
func (p Page[T]) PageSize() int { return p.Size }

// TotalCount implements result.Pager.
func (p Page[T]) TotalCount() int64 { return p.Total }

// MarshalJSON encodes only the items; page metadata travels in the envelope's
// pageInfo.
func (p Page[T]) MarshalJSON() ([]byte, error) {
	if p.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.Items)
}

// Mapper is the storage contract for an entity type T keyed by ID.
//
// Select variants returning a single entity report whether a row matched;
// "not found" is never an error at this level.
type Mapper[ID comparable, T any] interface {
	Insert(ctx context.Context, entity *T) error
	InsertList(ctx context.Context, entities []*T) error
	InsertMap(ctx context.Context, values map[string]any) error

	Delete(ctx context.Context, entity *T) (int64, error)
	DeleteByID(ctx context.Context, id ID) (int64, error)
	DeleteList(ctx context.Context, ids []ID) (int64, error)
	DeleteMap(ctx context.Context, filter Filter) (int64, error)

	Update(ctx context.Context, entity *T) (int64, error)
	UpdateList(ctx context.Context, entities []*T) (int64, error)
	UpdateMap(ctx context.Context, filter Filter, values map[string]any) (int64, error)

	SelectAll(ctx context.Context) ([]T, error)
	Select(ctx context.Context, probe *T) (T, bool, error)
	SelectByID(ctx context.Context, id ID) (T, bool, error)
	SelectList(ctx context.Context, probe *T) ([]T, error)
	SelectListByPage(ctx context.Context, filter Filter, page PageRequest) (Page[T], error)
	SelectPageByEntity(ctx context.Context, probe *T, page PageRequest) (Page[T], error)
	SelectMapByPage(ctx context.Context, filter Filter, page PageRequest) (Page[map[string]any], error)
	SelectListByMap(ctx context.Context, filter Filter) ([]T, error)
	SelectListByIDs(ctx context.Context, ids []ID) ([]T, error)
	SelectMapByMap(ctx context.Context, filter Filter) ([]map[string]any, error)
}

// TxManager runs fn inside a transaction carried by the context handed to fn.
//
// WithTransaction joins a read-write transaction already present in ctx or
// starts one, and rolls it back when fn returns an error or panics.
// WithReadOnlyTransaction joins any transaction present in ctx or starts a
// read-only one. AfterCommit defers fn until the outermost transaction in ctx
// commits, drops it on rollback and runs it at once outside a transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	InTransaction(ctx context.Context) bool
	AfterCommit(ctx context.Context, fn func())
}

// Cache is the read-through cache a Service may use for lookups by id.
type Cache[T any] interface {
	Get(namespace, key string) (T, bool)
	Set(namespace, key string, value T)
	InvalidateNamespace(namespace string)
}
