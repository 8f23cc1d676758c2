package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/ganttline/internal/db"
)

// FailOnNthExecUoW runs transactions like the SQLite unit of work but fails
// the FailOn-th write (counting from 1) with Err. Reads are never counted,
// so tests can target the exact insert or update that should break a
// multi-write operation and assert nothing was kept.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

// failingTx counts writes. A transaction is used by one goroutine at a time.
type failingTx struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
