package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	domainRepo "github.com/sangkips/restobill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type ctxKey string

// txKey is the context key for the transaction opened by TxManager
const txKey ctxKey = "gorm_tx"

// conn returns the transaction carried by ctx, or db outside a transaction
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over db
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// isUniqueViolation reports whether err is a postgres unique_violation (23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
