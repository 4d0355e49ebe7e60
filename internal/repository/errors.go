package repository

//go:generate mockery

import (
	"context"
	"errors"
	"fmt"

	"github.com/senyabanana/sme-tenders/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок Postgres, которые переводятся в ошибки предметной области.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// querier - общий интерфейс пула соединений и транзакции.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// mapError переводит ошибки pgx в ошибки предметной области.
// notFound используется как сообщение для pgx.ErrNoRows.
func mapError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewErrorResponse(models.ErrNotFound, notFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.Errorf(models.ErrConflict, "duplicate value violates %s", pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return models.Errorf(models.ErrConflict, "operation violates reference %s", pgErr.ConstraintName)
		case pgCheckViolation:
			return models.Errorf(models.ErrValidation, "value violates %s", pgErr.ConstraintName)
		}
	}

	var errResp *models.ErrorResponse
	if errors.As(err, &errResp) {
		return err
	}
	return fmt.Errorf("postgres: %w", err)
}

// isUniqueViolation сообщает, что ошибка вызвана нарушением уникальности.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation &&
		(constraint == "" || pgErr.ConstraintName == constraint)
}
