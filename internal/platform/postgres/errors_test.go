package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/cloudtask-api/internal/store"
	"github.com/stretchr/testify/assert"
)

// fakeResult implements sql.Result for testing CheckRowsAffected.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode}
	fkErr := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(uniqueErr))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", uniqueErr)))
	assert.False(t, IsUniqueViolation(fkErr))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	fkErr := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsForeignKeyViolation(fkErr))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("wrapped: %w", fkErr)))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "task"))

	err := CheckRowsAffected(fakeResult{rows: 0}, "task")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "task")

	err = CheckRowsAffected(fakeResult{rows: 0}, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = CheckRowsAffected(fakeResult{err: errors.New("driver broke")}, "task")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	assert.Error(t, CheckRowsAffected(nil, "task"))
}

func TestStoreConstructorsRejectNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresUserStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresProjectStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresTaskStore(nil, nil) })
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 100, normalizeLimit(0))
	assert.Equal(t, 100, normalizeLimit(-5))
	assert.Equal(t, 100, normalizeLimit(500))
	assert.Equal(t, 25, normalizeLimit(25))
}
