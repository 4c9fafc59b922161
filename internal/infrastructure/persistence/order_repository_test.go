package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestNextOrderNumber_UsesSequence(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormOrderRepository(gdb)

	mock.ExpectQuery(`SELECT nextval\('order_number_seq'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(42))

	number, err := repo.NextOrderNumber(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%d-00042", time.Now().Year()), number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextOrderNumber_SequenceError(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormOrderRepository(gdb)

	mock.ExpectQuery(`SELECT nextval\('order_number_seq'\)`).
		WillReturnError(fmt.Errorf("sequence missing"))

	_, err := repo.NextOrderNumber(context.Background())

	assert.Error(t, err)
}
