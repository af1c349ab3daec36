package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// SQLExecutor реализуют и *sql.DB, и *sql.Tx, поэтому любой метод репозитория работает
// как внутри транзакции, так и вне ее.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
	pqCheckViolation      = "23514"
)

var (
	ErrReferenceInvalid = errors.New("referenced row does not exist")
	ErrDuplicate        = errors.New("row already exists")
	ErrCheckViolation   = errors.New("row violates a check constraint")
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// mapPQError превращает нарушения ограничений в ошибки репозитория, остальные ошибки
// возвращает как есть.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqForeignKeyViolation:
		return fmt.Errorf("%w (%s)", ErrReferenceInvalid, pqErr.Constraint)
	case pqUniqueViolation:
		return fmt.Errorf("%w (%s)", ErrDuplicate, pqErr.Constraint)
	case pqCheckViolation:
		return fmt.Errorf("%w (%s)", ErrCheckViolation, pqErr.Constraint)
	}
	return err
}

// TxRunner выполняет fn в одной транзакции. Коммит, если fn вернула nil;
// откат при ошибке или панике.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx SQLExecutor) error) error
}

type sqlTxRunner struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTxRunner(db *sql.DB, logger *slog.Logger) TxRunner {
	return &sqlTxRunner{db: db, logger: logger}
}

func (r *sqlTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx SQLExecutor) error) (txErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	txErr = fn(ctx, tx)
	return txErr
}
