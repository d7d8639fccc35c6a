package db

import (
	"context"

	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/domain/crud"
	appLogger "github.com/prasetyowira/starter/infrastructure/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMapper implements crud.Mapper for a GORM model T whose primary key has
// type ID. Statements run on the transaction carried by the context, if any.
//
// Probe-based selects match the non-zero fields of the probe. Update writes
// the non-zero fields of the entity, keyed by its primary key.
type GormMapper[ID comparable, T any] struct {
	db *gorm.DB
}

var byPrimaryKey = clause.OrderByColumn{Column: clause.PrimaryColumn}

// NewGormMapper creates a mapper on db
func NewGormMapper[ID comparable, T any](db *gorm.DB) *GormMapper[ID, T] {
	return &GormMapper[ID, T]{db: db}
}

func (m *GormMapper[ID, T]) read(ctx context.Context) *gorm.DB {
	return Conn(ctx, m.db)
}

// fail records err at debug level; the caller's error boundary reports it.
func (m *GormMapper[ID, T]) fail(ctx context.Context, code, msg string, err error) error {
	appLogger.CtxDebug(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxCrud,
		Error: &appLogger.CustomError{
			Code:    code,
			Message: err.Error(),
			Type:    constant.ErrTypeDB,
		},
		Cause: err,
	})
	return err
}

func ids[ID comparable](list []ID) []interface{} {
	values := make([]interface{}, len(list))
	for i, id := range list {
		values[i] = id
	}
	return values
}

func filtered(tx *gorm.DB, filter crud.Filter) *gorm.DB {
	if len(filter) == 0 {
		return tx
	}
	return tx.Where(map[string]interface{}(filter))
}

func probed[T any](tx *gorm.DB, probe *T) *gorm.DB {
	if probe == nil {
		return tx
	}
	return tx.Where(probe)
}

// Insert persists entity and fills its generated primary key
func (m *GormMapper[ID, T]) Insert(ctx context.Context, entity *T) error {
	tx, err := WriteConn(ctx, m.db)
	if err != nil {
		return err
	}
	if err := tx.Create(entity).Error; err != nil {
		return m.fail(ctx, constant.ErrCodeDBInsert, constant.MsgInsertFailed, err)
	}
	return nil
}

// InsertList persists entities in one statement
func (m *GormMapper[ID, T]) InsertList(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	tx, err := WriteConn(ctx, m.db)
	if err != nil {
		return err
	}
	if err := tx.Create(entities).Error; err != nil {
		return m.fail(ctx, constant.ErrCodeDBInsert, constant.MsgInsertFailed, err)
	}
	return nil
}

// InsertMap persists a row built from column values
func (m *GormMapper[ID, T]) InsertMap(ctx context.Context, values map[string]any) error {
	tx, err := WriteConn(ctx, m.db)
	if err != nil {
		return err
	}
	if err := tx.Model(new(T)).Create(map[string]interface{}(values)).Error; err != nil {
		return m.fail(ctx, constant.ErrCodeDBInsert, constant.MsgInsertFailed, err)
	}
	return nil
}

func (m *GormMapper[ID, T]) delete(ctx context.Context, scope func(*gorm.DB) *gorm.DB, value interface{}) (int64, error) {
	tx, err := WriteConn(ctx, m.db)
	if err != nil {
		return 0, err
	}
	res := scope(tx).Delete(value)
	if res.Error != nil {
		return 0, m.fail(ctx, constant.ErrCodeDBDelete, constant.MsgDeleteFailed, res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes entity by its primary key
func (m *GormMapper[ID, T]) Delete(ctx context.Context, entity *T) (int64, error) {
	return m.delete(ctx, func(tx *gorm.DB) *gorm.DB { return tx }, entity)
}

// DeleteByID removes the row identified by id
func (m *GormMapper[ID, T]) DeleteByID(ctx context.Context, id ID) (int64, error) {
	return m.delete(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(clause.Eq{Column: clause.PrimaryColumn, Value: id})
	}, new(T))
}

// DeleteList removes every row whose id is in list
func (m *GormMapper[ID, T]) DeleteList(ctx context.Context, list []ID) (int64, error) {
	if len(list) == 0 {
		return 0, nil
	}
	return m.delete(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(clause.IN{Column: clause.PrimaryColumn, Values: ids(list)})
	}, new(T))
}

// DeleteMap removes the rows matching filter. An empty filter is rejected by
// GORM with gorm.ErrMissingWhereClause.
func (m *GormMapper[ID, T]) DeleteMap(ctx context.Context, filter crud.Filter) (int64, error) {
	return m.delete(ctx, func(tx *gorm.DB) *gorm.DB { return filtered(tx, filter) }, new(T))
}

// Update writes the non-zero fields of entity
func (m *GormMapper[ID, T]) Update(ctx context.Context, entity *T) (int64, error) {
	tx, err := WriteConn(ctx, m.db)
	if err != nil {
		return 0, err
	}
	res := tx.Model(entity).Updates(entity)
	if res.Error != nil {
		return 0, m.fail(ctx, constant.ErrCodeDBUpdate, constant.MsgUpdateFailed, res.Error)
	}
	return res.RowsAffected, nil
}

// UpdateList updates entities one by one and returns the total rows affected
func (m *GormMapper[ID, T]) UpdateList(ctx context.Context, entities []*T) (int64, error) {
	var total int64
	for _, entity := range entities {
		n, err := m.Update(ctx, entity)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// UpdateMap sets values on the rows matching filter
func (m *GormMapper[ID, T]) UpdateMap(ctx context.Context, filter crud.Filter, values map[string]any) (int64, error) {
	tx, err := WriteConn(ctx, m.db)
	if err != nil {
		return 0, err
	}
	res := filtered(tx.Model(new(T)), filter).Updates(map[string]interface{}(values))
	if res.Error != nil {
		return 0, m.fail(ctx, constant.ErrCodeDBUpdate, constant.MsgUpdateFailed, res.Error)
	}
	return res.RowsAffected, nil
}

func (m *GormMapper[ID, T]) list(ctx context.Context, query *gorm.DB) ([]T, error) {
	items := []T{}
	if err := query.Order(byPrimaryKey).Find(&items).Error; err != nil {
		return nil, m.fail(ctx, constant.ErrCodeDBLookup, constant.MsgLookupFailed, err)
	}
	return items, nil
}

func (m *GormMapper[ID, T]) first(ctx context.Context, query *gorm.DB) (T, bool, error) {
	var zero T
	items, err := m.list(ctx, query.Limit(1))
	if err != nil || len(items) == 0 {
		return zero, false, err
	}
	return items[0], true, nil
}

func (m *GormMapper[ID, T]) page(ctx context.Context, query *gorm.DB, req crud.PageRequest) (crud.Page[T], error) {
	out := crud.Page[T]{Number: req.Number, Size: req.Size}
	query = query.Model(new(T)).Session(&gorm.Session{})

	if err := query.Count(&out.Total).Error; err != nil {
		return out, m.fail(ctx, constant.ErrCodeDBCount, constant.MsgCountFailed, err)
	}
	if out.Total == 0 {
		out.Items = []T{}
		return out, nil
	}

	items, err := m.list(ctx, query.Offset(req.Offset()).Limit(req.Size))
	if err != nil {
		return out, err
	}
	out.Items = items
	return out, nil
}

// SelectAll returns every row ordered by primary key
func (m *GormMapper[ID, T]) SelectAll(ctx context.Context) ([]T, error) {
	return m.list(ctx, m.read(ctx))
}

// Select returns the first row matching probe
func (m *GormMapper[ID, T]) Select(ctx context.Context, probe *T) (T, bool, error) {
	return m.first(ctx, probed(m.read(ctx), probe))
}

// SelectByID returns the row identified by id
func (m *GormMapper[ID, T]) SelectByID(ctx context.Context, id ID) (T, bool, error) {
	return m.first(ctx, m.read(ctx).Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}))
}

// SelectList returns every row matching probe
func (m *GormMapper[ID, T]) SelectList(ctx context.Context, probe *T) ([]T, error) {
	return m.list(ctx, probed(m.read(ctx), probe))
}

// SelectListByPage returns one page of the rows matching filter
func (m *GormMapper[ID, T]) SelectListByPage(ctx context.Context, filter crud.Filter, req crud.PageRequest) (crud.Page[T], error) {
	return m.page(ctx, filtered(m.read(ctx), filter), req)
}

// SelectPageByEntity returns one page of the rows matching probe
func (m *GormMapper[ID, T]) SelectPageByEntity(ctx context.Context, probe *T, req crud.PageRequest) (crud.Page[T], error) {
	return m.page(ctx, probed(m.read(ctx), probe), req)
}

// SelectMapByPage returns one page of the rows matching filter as column maps
func (m *GormMapper[ID, T]) SelectMapByPage(ctx context.Context, filter crud.Filter, req crud.PageRequest) (crud.Page[map[string]any], error) {
	out := crud.Page[map[string]any]{Number: req.Number, Size: req.Size, Items: []map[string]any{}}
	query := filtered(m.read(ctx).Model(new(T)), filter).Session(&gorm.Session{})

	if err := query.Count(&out.Total).Error; err != nil {
		return out, m.fail(ctx, constant.ErrCodeDBCount, constant.MsgCountFailed, err)
	}
	if out.Total == 0 {
		return out, nil
	}

	if err := query.Order(byPrimaryKey).Offset(req.Offset()).Limit(req.Size).Find(&out.Items).Error; err != nil {
		return out, m.fail(ctx, constant.ErrCodeDBLookup, constant.MsgLookupFailed, err)
	}
	return out, nil
}

// SelectListByMap returns every row matching filter
func (m *GormMapper[ID, T]) SelectListByMap(ctx context.Context, filter crud.Filter) ([]T, error) {
	return m.list(ctx, filtered(m.read(ctx), filter))
}

// SelectListByIDs returns the rows whose id is in list
func (m *GormMapper[ID, T]) SelectListByIDs(ctx context.Context, list []ID) ([]T, error) {
	if len(list) == 0 {
		return []T{}, nil
	}
	return m.list(ctx, m.read(ctx).Where(clause.IN{Column: clause.PrimaryColumn, Values: ids(list)}))
}

// SelectMapByMap returns the rows matching filter as column maps
func (m *GormMapper[ID, T]) SelectMapByMap(ctx context.Context, filter crud.Filter) ([]map[string]any, error) {
	rows := []map[string]any{}
	query := filtered(m.read(ctx).Model(new(T)), filter).Order(byPrimaryKey)
	if err := query.Find(&rows).Error; err != nil {
		return nil, m.fail(ctx, constant.ErrCodeDBLookup, constant.MsgLookupFailed, err)
	}
	return rows, nil
}
