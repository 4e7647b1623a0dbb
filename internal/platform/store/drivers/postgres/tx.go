package postgres

import (
	"context"
	"database/sql"

	"github.com/nextprepbd/platform/internal/platform/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Identities() store.Identities         { return &identitiesRepo{db: t.tx} }
func (t *txStore) Profiles() store.Profiles             { return &profilesRepo{db: t.tx} }
func (t *txStore) Invitations() store.Invitations       { return &invitationsRepo{db: t.tx} }
func (t *txStore) RecoveryTokens() store.RecoveryTokens { return &recoveryTokensRepo{db: t.tx} }
func (t *txStore) Donations() store.Donations           { return &donationsRepo{db: t.tx} }
func (t *txStore) Messages() store.Messages             { return &messagesRepo{db: t.tx} }
func (t *txStore) Courses() store.Courses               { return &coursesRepo{db: t.tx} }
func (t *txStore) Resources() store.Resources           { return &resourcesRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before transactions start
