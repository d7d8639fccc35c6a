package db

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/prasetyowira/starter/constant"
	appLogger "github.com/prasetyowira/starter/infrastructure/logger"
	"gorm.io/gorm"
)

// ErrReadOnlyTransaction is returned when read-write work is attempted inside
// a read-only transaction.
var ErrReadOnlyTransaction = errors.New("read-write operation inside a read-only transaction")

type txKey struct{}

type txState struct {
	tx       *gorm.DB
	readOnly bool

	mu          sync.Mutex
	afterCommit []func()
}

func (st *txState) onCommit(fn func()) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.afterCommit = append(st.afterCommit, fn)
}

func (st *txState) committed() {
	st.mu.Lock()
	callbacks := st.afterCommit
	st.afterCommit = nil
	st.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

func stateFrom(ctx context.Context) (*txState, bool) {
	st, ok := ctx.Value(txKey{}).(*txState)
	return st, ok
}

// InTransaction reports whether ctx carries a transaction and whether it is
// read-only.
func InTransaction(ctx context.Context) (active, readOnly bool) {
	st, ok := stateFrom(ctx)
	if !ok {
		return false, false
	}
	return true, st.readOnly
}

// Conn returns the transaction carried by ctx, or base when there is none,
// bound to ctx.
func Conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	if st, ok := stateFrom(ctx); ok {
		return st.tx.WithContext(ctx)
	}
	return base.WithContext(ctx)
}

// WriteConn is Conn for statements that modify data. It refuses to run inside
// a read-only transaction, whatever the driver does with the read-only flag.
func WriteConn(ctx context.Context, base *gorm.DB) (*gorm.DB, error) {
	if st, ok := stateFrom(ctx); ok && st.readOnly {
		logReadOnlyViolation(ctx)
		return nil, ErrReadOnlyTransaction
	}
	return Conn(ctx, base), nil
}

// TxManager implements crud.TxManager with GORM transactions kept in the
// context.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager on db
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTransaction joins the read-write transaction in ctx or starts one. The
// transaction is rolled back when fn returns an error or panics.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if st, ok := stateFrom(ctx); ok {
		if st.readOnly {
			logReadOnlyViolation(ctx)
			return ErrReadOnlyTransaction
		}
		return fn(ctx)
	}

	st := &txState{}
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st.tx = tx
		return fn(context.WithValue(ctx, txKey{}, st))
	})
	if err != nil {
		appLogger.CtxDebug(ctx, constant.MsgTxRolledBack, appLogger.LoggerInfo{
			ContextFunction: constant.CtxTx,
			Cause:           err,
		})
		return err
	}
	st.committed()
	return nil
}

// WithReadOnlyTransaction joins any transaction in ctx or starts a read-only
// one.
func (m *TxManager) WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := stateFrom(ctx); ok {
		return fn(ctx)
	}

	st := &txState{readOnly: true}
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st.tx = tx
		return fn(context.WithValue(ctx, txKey{}, st))
	}, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	st.committed()
	return nil
}

// InTransaction reports whether ctx carries a transaction of any kind
func (m *TxManager) InTransaction(ctx context.Context) bool {
	_, ok := stateFrom(ctx)
	return ok
}

// AfterCommit runs fn once the outermost transaction carried by ctx commits,
// or right away when ctx carries none. fn is dropped on rollback.
func (m *TxManager) AfterCommit(ctx context.Context, fn func()) {
	st, ok := stateFrom(ctx)
	if !ok {
		fn()
		return
	}
	st.onCommit(fn)
}

func logReadOnlyViolation(ctx context.Context) {
	appLogger.CtxDebug(ctx, constant.MsgTxReadOnlyViolation, appLogger.LoggerInfo{
		ContextFunction: constant.CtxTxReadOnly,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBTxReadOnly,
			Message: ErrReadOnlyTransaction.Error(),
			Type:    constant.ErrTypeDB,
		},
	})
}
