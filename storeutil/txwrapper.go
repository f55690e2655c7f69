package storeutil

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// TxOption changes the options of a transaction opened by WithTx.
type TxOption func(o *sql.TxOptions)

// TxWithIsolation sets the isolation level of the transaction. Transactions
// are serializable by default.
func TxWithIsolation(level sql.IsolationLevel) TxOption {
	return func(o *sql.TxOptions) {
		o.Isolation = level
	}
}

// WithTx runs f in a transaction, which is committed if f returns no error
// and rolled back otherwise. A panic in f rolls back and re-panics.
func WithTx(ctx context.Context, db *sqlx.DB, f func(*sqlx.Tx) error, opts ...TxOption) (err error) {
	o := &sql.TxOptions{Isolation: sql.LevelSerializable}
	for _, opt := range opts {
		opt(o)
	}
	var txn *sqlx.Tx
	txn, err = db.BeginTxx(ctx, o)
	if err != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			_ = txn.Rollback()
			panic(r)
		}
		if err != nil {
			// The rollback error is ignored to keep the one that caused it.
			_ = txn.Rollback()
		} else {
			err = txn.Commit()
		}
	}()
	err = f(txn)
	return
}
