package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openKV(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv(key, value) VALUES ('currentUser', 'token')`)
	require.NoError(t, err)
	return db
}

func keys(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT key FROM kv ORDER BY key`)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		out = append(out, k)
	}
	require.NoError(t, rows.Err())
	return out
}

// seedBatch mirrors what a reseed does: write the document, drop the session.
func seedBatch(ctx context.Context, tx DBTX) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('ipt_demo_v1', '{}')`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = 'currentUser'`)
	return err
}

func TestWithTx_BatchCommitsTogether(t *testing.T) {
	db := openKV(t)

	require.NoError(t, WithTx(context.Background(), db, nil, seedBatch))
	assert.Equal(t, []string{"ipt_demo_v1"}, keys(t, db))
}

func TestWithTx_FailedBatchLeavesNothing(t *testing.T) {
	db := openKV(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, seedBatch(ctx, tx))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"currentUser"}, keys(t, db))
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := openKV(t)

	defer func() {
		require.Equal(t, "kaput", recover())
		assert.Equal(t, []string{"currentUser"}, keys(t, db))
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, seedBatch(ctx, tx))
		panic("kaput")
	})
}

func TestWithTx_BeginAndCommitErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	down := errors.New("connection reset")

	mock.ExpectBegin().WillReturnError(down)
	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error { return nil })
	require.ErrorIs(t, err, down)
	assert.ErrorContains(t, err, "begin batch")

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(down)
	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error { return nil })
	require.ErrorIs(t, err, down)
	assert.ErrorContains(t, err, "commit batch")

	require.NoError(t, mock.ExpectationsWereMet())
}
