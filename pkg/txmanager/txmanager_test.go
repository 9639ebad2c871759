package txmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezervo/booking-service/pkg/dbmetrics"
)

// fakeConn - минимальный драйвер, у которого можно подстроить исход COMMIT
type fakeConn struct {
	mu         sync.Mutex
	begins     int
	commitErrs []error
}

type fakeConnector struct{ conn *fakeConn }

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c *fakeConnector) Driver() driver.Driver                        { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use connector") }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, errors.New("use BeginTx") }

func (c *fakeConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begins++
	return &fakeTx{conn: c}, nil
}

type fakeTx struct{ conn *fakeConn }

func (t *fakeTx) Commit() error {
	c := t.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.commitErrs) > 0 {
		err := c.commitErrs[0]
		c.commitErrs = c.commitErrs[1:]
		return err
	}
	return nil
}

func (t *fakeTx) Rollback() error { return nil }

func newTestManager(conn *fakeConn) *TransactionManager {
	db := sql.OpenDB(&fakeConnector{conn: conn})
	db.SetMaxOpenConns(1)
	return NewTransactionManager(dbmetrics.Wrap(db, nil, "test"))
}

func TestDoSerializable_RetriesCommitTimeSerializationFailure(t *testing.T) {
	conn := &fakeConn{commitErrs: []error{
		&pq.Error{Code: "40001", Message: "could not serialize access"},
	}}
	m := newTestManager(conn)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 2, conn.begins)
}

func TestDoSerializable_GivesUpAfterMaxRetries(t *testing.T) {
	conn := &fakeConn{commitErrs: []error{
		&pq.Error{Code: "40P01"},
		&pq.Error{Code: "40P01"},
		&pq.Error{Code: "40P01"},
	}}
	m := newTestManager(conn)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommitTx)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, maxRetries, conn.begins)
}

func TestDo_DoesNotRetry(t *testing.T) {
	conn := &fakeConn{commitErrs: []error{&pq.Error{Code: "40001"}}}
	m := newTestManager(conn)

	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.Equal(t, 1, conn.begins)
}
