package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

func newTradePool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func expectationsMet(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestTxManagerCommitsUnitOfWork(t *testing.T) {
	pool := newTradePool(t)
	pool.ExpectBegin()
	pool.ExpectExec("UPDATE accounts").
		WithArgs("acc-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectCommit()

	manager := newTxManagerWithPool(pool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A balance mutation rides inside the unit of work.
	if _, err := txQuerier(tx).Exec(context.Background(), "UPDATE accounts SET version = version + 1 WHERE id = $1", "acc-1"); err != nil {
		t.Fatalf("exec failed: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	expectationsMet(t, pool)
}

func TestTxManagerPropagatesBeginFailure(t *testing.T) {
	pool := newTradePool(t)
	beginErr := errors.New("too many clients")
	pool.ExpectBegin().WillReturnError(beginErr)

	manager := newTxManagerWithPool(pool)
	if _, err := manager.Begin(context.Background()); !errors.Is(err, beginErr) {
		t.Fatalf("expected begin failure to surface, got %v", err)
	}
}

func TestTxManagerRollbackAbandonsWork(t *testing.T) {
	pool := newTradePool(t)
	pool.ExpectBegin()
	pool.ExpectRollback()

	manager := newTxManagerWithPool(pool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	expectationsMet(t, pool)
}

// The usecases defer Rollback unconditionally, so a rollback after a
// successful commit must surface the closed-tx error and nothing worse.
func TestTxManagerRollbackAfterCommit(t *testing.T) {
	pool := newTradePool(t)
	pool.ExpectBegin()
	pool.ExpectCommit()
	pool.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

	manager := newTxManagerWithPool(pool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if err := tx.Rollback(context.Background()); !errors.Is(err, pgx.ErrTxClosed) {
		t.Fatalf("expected ErrTxClosed, got %v", err)
	}

	expectationsMet(t, pool)
}
