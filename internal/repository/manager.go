package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"go-marketplace/internal/database"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Manager hands out repositories bound either to the pool or to a transaction.
type Manager struct {
	db *sql.DB
}

func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

func (m *Manager) Users() Users {
	return NewUserRepository(m.db)
}

func (m *Manager) Products() *ProductRepository {
	return NewProductRepository(m.db)
}

func (m *Manager) Audit() *AuditRepository {
	return NewAuditRepository(m.db)
}

// WithinTx runs fn with a Users repository bound to a single transaction.
func (m *Manager) WithinTx(ctx context.Context, fn func(ctx context.Context, users Users) error) error {
	return database.WithTx(ctx, m.db, func(ctx context.Context, tx database.DBTX) error {
		return fn(ctx, NewUserRepository(tx))
	})
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
