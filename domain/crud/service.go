package crud

import (
	"context"
	"fmt"
	"sync"

	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/infrastructure/logger"
)

// Service layers transactions and an optional cache over a Mapper. Every
// operation states explicitly whether it needs a read-write or a read-only
// transaction.
//
// The cache only ever holds committed rows: lookups inside a transaction
// bypass it, and a write invalidates the namespace again once its outermost
// transaction commits.
type Service[ID comparable, T any] struct {
	mapper    Mapper[ID, T]
	tx        TxManager
	cache     Cache[T]
	namespace string
	guard     *cacheGuard
}

// cacheGuard orders cache fills against invalidations. A fill is kept only
// when no invalidation happened since its read started.
type cacheGuard struct {
	mu         sync.Mutex
	generation uint64
}

func (g *cacheGuard) current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generation
}

// NewService creates a service without caching.
func NewService[ID comparable, T any](mapper Mapper[ID, T], tx TxManager) *Service[ID, T] {
	return &Service[ID, T]{mapper: mapper, tx: tx}
}

// WithCache returns a copy of s that caches FindByID results under namespace.
// Any successful write drops the whole namespace.
func (s *Service[ID, T]) WithCache(c Cache[T], namespace string) *Service[ID, T] {
	clone := *s
	clone.cache = c
	clone.namespace = namespace
	clone.guard = &cacheGuard{}
	return &clone
}

// Mapper exposes the underlying mapper for queries the service does not cover.
func (s *Service[ID, T]) Mapper() Mapper[ID, T] { return s.mapper }

// Tx exposes the transaction manager so callers can group several operations.
func (s *Service[ID, T]) Tx() TxManager { return s.tx }

func readWrite[R any](ctx context.Context, tx TxManager, fn func(ctx context.Context) (R, error)) (R, error) {
	var out R
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

func readOnly[R any](ctx context.Context, tx TxManager, fn func(ctx context.Context) (R, error)) (R, error) {
	var out R
	err := tx.WithReadOnlyTransaction(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

// write runs fn read-write and drops the cached namespace when it succeeds.
// Inside an outer transaction the namespace is dropped once more after the
// commit, since other readers may have cached the old row in the meantime.
func write[ID comparable, T any, R any](ctx context.Context, s *Service[ID, T], fn func(ctx context.Context) (R, error)) (R, error) {
	out, err := readWrite(ctx, s.tx, fn)
	if err != nil || s.cache == nil {
		return out, err
	}
	s.invalidate(ctx)
	if s.tx.InTransaction(ctx) {
		s.tx.AfterCommit(ctx, func() { s.invalidate(ctx) })
	}
	return out, nil
}

func (s *Service[ID, T]) invalidate(ctx context.Context) {
	s.guard.mu.Lock()
	s.guard.generation++
	s.cache.InvalidateNamespace(s.namespace)
	s.guard.mu.Unlock()

	logger.CtxDebug(ctx, constant.MsgCacheInvalidated, logger.LoggerInfo{
		ContextFunction: constant.CtxCrud,
		Data: map[string]interface{}{
			constant.DataEntity: s.namespace,
		},
	})
}

// Save inserts entity.
func (s *Service[ID, T]) Save(ctx context.Context, entity *T) error {
	_, err := write(ctx, s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.mapper.Insert(ctx, entity)
	})
	return err
}

// SaveList inserts entities in one transaction.
func (s *Service[ID, T]) SaveList(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	_, err := write(ctx, s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.mapper.InsertList(ctx, entities)
	})
	return err
}

// SaveMap inserts a row from column values.
func (s *Service[ID, T]) SaveMap(ctx context.Context, values map[string]any) error {
	_, err := write(ctx, s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.mapper.InsertMap(ctx, values)
	})
	return err
}

// Remove deletes entity by its primary key.
func (s *Service[ID, T]) Remove(ctx context.Context, entity *T) (int64, error) {
	return write(ctx, s, func(ctx context.Context) (int64, error) {
		return s.mapper.Delete(ctx, entity)
	})
}

// RemoveByID deletes the row identified by id.
func (s *Service[ID, T]) RemoveByID(ctx context.Context, id ID) (int64, error) {
	return write(ctx, s, func(ctx context.Context) (int64, error) {
		return s.mapper.DeleteByID(ctx, id)
	})
}

// RemoveList deletes every row whose id is in ids.
func (s *Service[ID, T]) RemoveList(ctx context.Context, ids []ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return write(ctx, s, func(ctx context.Context) (int64, error) {
		return s.mapper.DeleteList(ctx, ids)
	})
}

// RemoveMap deletes the rows matching filter.
func (s *Service[ID, T]) RemoveMap(ctx context.Context, filter Filter) (int64, error) {
	return write(ctx, s, func(ctx context.Context) (int64, error) {
		return s.mapper.DeleteMap(ctx, filter)
	})
}

// Modify updates entity by its primary key.
func (s *Service[ID, T]) Modify(ctx context.Context, entity *T) (int64, error) {
	return write(ctx, s, func(ctx context.Context) (int64, error) {
		return s.mapper.Update(ctx, entity)
	})
}

// ModifyList updates entities in one transaction.
func (s *Service[ID, T]) ModifyList(ctx context.Context, entities []*T) (int64, error) {
	if len(entities) == 0 {
		return 0, nil
	}
	return write(ctx, s, func(ctx context.Context) (int64, error) {
		return s.mapper.UpdateList(ctx, entities)
	})
}

// ModifyMap sets values on the rows matching filter.
func (s *Service[ID, T]) ModifyMap(ctx context.Context, filter Filter, values map[string]any) (int64, error) {
	return write(ctx, s, func(ctx context.Context) (int64, error) {
		return s.mapper.UpdateMap(ctx, filter, values)
	})
}

type found[T any] struct {
	value T
	ok    bool
}

// fill caches value unless the namespace was invalidated after generation
func (s *Service[ID, T]) fill(generation uint64, key string, value T) {
	s.guard.mu.Lock()
	defer s.guard.mu.Unlock()
	if s.guard.generation == generation {
		s.cache.Set(s.namespace, key, value)
	}
}

// Find returns the first entity matching the non-zero fields of probe.
func (s *Service[ID, T]) Find(ctx context.Context, probe *T) (T, bool, error) {
	r, err := readOnly(ctx, s.tx, func(ctx context.Context) (found[T], error) {
		v, ok, err := s.mapper.Select(ctx, probe)
		return found[T]{v, ok}, err
	})
	return r.value, r.ok, err
}

// FindAll returns every entity.
func (s *Service[ID, T]) FindAll(ctx context.Context) ([]T, error) {
	return readOnly(ctx, s.tx, s.mapper.SelectAll)
}

// FindByID returns the entity identified by id, consulting the cache first
// when one is configured and ctx carries no transaction.
func (s *Service[ID, T]) FindByID(ctx context.Context, id ID) (T, bool, error) {
	key := fmt.Sprint(id)
	cached := s.cache != nil && !s.tx.InTransaction(ctx)

	var generation uint64
	if cached {
		if v, ok := s.cache.Get(s.namespace, key); ok {
			logger.CtxDebug(ctx, constant.MsgCacheHit, logger.LoggerInfo{
				ContextFunction: constant.CtxCrud,
				Data: map[string]interface{}{
					constant.DataEntity: s.namespace,
					constant.DataID:     key,
				},
			})
			return v, true, nil
		}
		generation = s.guard.current()
	}

	r, err := readOnly(ctx, s.tx, func(ctx context.Context) (found[T], error) {
		v, ok, err := s.mapper.SelectByID(ctx, id)
		return found[T]{v, ok}, err
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	if r.ok && cached {
		s.fill(generation, key, r.value)
	}
	return r.value, r.ok, nil
}

// FindList returns every entity matching the non-zero fields of probe.
func (s *Service[ID, T]) FindList(ctx context.Context, probe *T) ([]T, error) {
	return readOnly(ctx, s.tx, func(ctx context.Context) ([]T, error) {
		return s.mapper.SelectList(ctx, probe)
	})
}

// FindListByPage returns one page of the entities matching filter.
func (s *Service[ID, T]) FindListByPage(ctx context.Context, filter Filter, page PageRequest) (Page[T], error) {
	return readOnly(ctx, s.tx, func(ctx context.Context) (Page[T], error) {
		return s.mapper.SelectListByPage(ctx, filter, page)
	})
}

// FindPageByEntity returns one page of the entities matching probe.
func (s *Service[ID, T]) FindPageByEntity(ctx context.Context, probe *T, page PageRequest) (Page[T], error) {
	return readOnly(ctx, s.tx, func(ctx context.Context) (Page[T], error) {
		return s.mapper.SelectPageByEntity(ctx, probe, page)
	})
}

// FindMapByPage is FindListByPage returning raw column maps.
func (s *Service[ID, T]) FindMapByPage(ctx context.Context, filter Filter, page PageRequest) (Page[map[string]any], error) {
	return readOnly(ctx, s.tx, func(ctx context.Context) (Page[map[string]any], error) {
		return s.mapper.SelectMapByPage(ctx, filter, page)
	})
}

// FindListByMap returns every entity matching filter.
func (s *Service[ID, T]) FindListByMap(ctx context.Context, filter Filter) ([]T, error) {
	return readOnly(ctx, s.tx, func(ctx context.Context) ([]T, error) {
		return s.mapper.SelectListByMap(ctx, filter)
	})
}

// FindListByIDs returns the entities whose id is in ids.
func (s *Service[ID, T]) FindListByIDs(ctx context.Context, ids []ID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return readOnly(ctx, s.tx, func(ctx context.Context) ([]T, error) {
		return s.mapper.SelectListByIDs(ctx, ids)
	})
}

// FindMapByMap returns the rows matching filter as column maps.
func (s *Service[ID, T]) FindMapByMap(ctx context.Context, filter Filter) ([]map[string]any, error) {
	return readOnly(ctx, s.tx, func(ctx context.Context) ([]map[string]any, error) {
		return s.mapper.SelectMapByMap(ctx, filter)
	})
}
