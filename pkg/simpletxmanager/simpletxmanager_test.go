package simpletxmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrbarber/scheduling-service/pkg/dbmetrics"
)

// fakeState программирует поведение драйвера: ошибки Commit выдаются
// по очереди, по одной на каждую начатую транзакцию
type fakeState struct {
	commitErrs []error
	begins     int
	rollbacks  int
}

func (s *fakeState) nextCommitErr() error {
	if len(s.commitErrs) == 0 {
		return nil
	}
	err := s.commitErrs[0]
	s.commitErrs = s.commitErrs[1:]
	return err
}

type fakeDriverTx struct {
	state     *fakeState
	commitErr error
}

func (t *fakeDriverTx) Commit() error { return t.commitErr }

func (t *fakeDriverTx) Rollback() error {
	t.state.rollbacks++
	return nil
}

type fakeConn struct {
	state *fakeState
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare is not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *fakeConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	c.state.begins++
	return &fakeDriverTx{state: c.state, commitErr: c.state.nextCommitErr()}, nil
}

type fakeConnector struct {
	state *fakeState
}

func (c fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeConn{state: c.state}, nil
}

func (c fakeConnector) Driver() driver.Driver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open is not supported, use sql.OpenDB")
}

func newFakeDB(t *testing.T, state *fakeState) *sql.DB {
	t.Helper()
	db := sql.OpenDB(fakeConnector{state: state})
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func serializationFailure() *pq.Error {
	return &pq.Error{Code: pq.ErrorCode(pqSerializationFailure)}
}

func TestDoSerializable_RetriesCommitSerializationFailure(t *testing.T) {
	state := &fakeState{commitErrs: []error{serializationFailure(), nil}}
	manager := NewTransactionManager(newFakeDB(t, state))

	calls := 0
	err := manager.DoSerializable(context.Background(), func(_ context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, state.begins)
}

func TestDoSerializable_ExhaustsRetries(t *testing.T) {
	state := &fakeState{commitErrs: []error{
		serializationFailure(), serializationFailure(), serializationFailure(),
	}}
	manager := NewTransactionManager(newFakeDB(t, state))

	err := manager.DoSerializable(context.Background(), func(_ context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, state.begins)
	assert.ErrorIs(t, err, ErrTxFailed)

	// Исходная ошибка postgres должна остаться в цепочке
	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pqSerializationFailure, string(pqErr.Code))
}

func TestDoSerializable_FnErrorRollsBack(t *testing.T) {
	state := &fakeState{}
	manager := NewTransactionManager(newFakeDB(t, state))

	errBoom := errors.New("boom")
	err := manager.DoSerializable(context.Background(), func(_ context.Context) error {
		return errBoom
	})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, state.begins)
	assert.Equal(t, 1, state.rollbacks)
}

func TestDoSerializable_RetriesWrappedRepositoryError(t *testing.T) {
	errExec := errors.New("repo: failed to execute query")

	state := &fakeState{}
	manager := NewTransactionManager(newFakeDB(t, state))

	calls := 0
	err := manager.DoSerializable(context.Background(), func(_ context.Context) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("%w: Create - execute insert: %w",
				errExec, &pq.Error{Code: pq.ErrorCode(pqDeadlockDetected)})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, state.rollbacks)
}

func TestDo_PutsTransactionIntoContext(t *testing.T) {
	state := &fakeState{}
	manager := NewTransactionManager(newFakeDB(t, state))

	err := manager.Do(context.Background(), func(txCtx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(txCtx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, state.begins)
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "bare serialization failure",
			err:  serializationFailure(),
			want: true,
		},
		{
			name: "deadlock wrapped once",
			err:  fmt.Errorf("commit: %w", &pq.Error{Code: pq.ErrorCode(pqDeadlockDetected)}),
			want: true,
		},
		{
			name: "unique violation",
			err:  &pq.Error{Code: pq.ErrorCode(pqUniqueViolation)},
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "cause flattened into message",
			err:  fmt.Errorf("commit: %v", serializationFailure()),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryable(tc.err))
		})
	}
}
