package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an infra-defined transaction handle (pgx.Tx for Postgres).
type Tx interface{}

// NoTX runs a repository call outside any transaction.
var NoTX interface{}

// TransactionManager executes fn inside one database transaction, passing the
// handle down to repositories.
//
// USAGE
//
//	tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx Tx) error {
//		code, err := codes.FindByCode(ctx, tx, "BOS-PRO-ABCD-EFGH")
//		...
//		return err
//	})
//
// Repositories MUST accept a nil tx (non-transactional path). Given a tx,
// reads that precede a write (FindByCode) take a row lock.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
