package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/internal/repository"
	"github.com/shopseed/shopseed/pkg/database"
	"github.com/shopseed/shopseed/pkg/support/exception"
)

// setupStoreMock drives the GORM store over a sqlmock connection.
func setupStoreMock(t *testing.T) (sqlmock.Sqlmock, repository.Store, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	conn := database.NewConnection(gormDB, database.Config{Type: "mysql"})
	store := repository.NewStore(conn)

	cleanup := func() {
		mock.ExpectClose()
		sqlDB.Close()
	}
	return mock, store, cleanup
}

func TestFetchOrdersWithTotals(t *testing.T) {
	mock, store, cleanup := setupStoreMock(t)
	defer cleanup()

	orderDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"order_id", "order_date", "order_status_id", "total"}).
		AddRow(1, orderDate, 2, 59.97).
		AddRow(2, orderDate.Add(time.Hour), 5, 0.0)
	mock.ExpectQuery("SELECT o.order_id").WillReturnRows(rows)

	infos, err := store.FetchOrdersWithTotals(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, int64(1), infos[0].OrderID)
	assert.Equal(t, int64(5997), infos[0].TotalCents)
	assert.Equal(t, orderDate, infos[0].OrderDate)
	assert.Equal(t, int64(0), infos[1].TotalCents)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPaymentMethods(t *testing.T) {
	mock, store, cleanup := setupStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "code"}).
		AddRow(1, "card").
		AddRow(2, "paypal").
		AddRow(3, "mbway")
	mock.ExpectQuery("SELECT payment_method_id AS id, code FROM payment_methods").WillReturnRows(rows)

	methods, err := store.FetchPaymentMethods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"card": 1, "paypal": 2, "mbway": 3}, methods)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPaymentMethodsQueryError(t *testing.T) {
	mock, store, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT payment_method_id").WillReturnError(assert.AnError)

	_, err := store.FetchPaymentMethods(context.Background())
	require.Error(t, err)
	assert.True(t, exception.IsStorageFailure(err))
}

func TestFetchProducts(t *testing.T) {
	mock, store, cleanup := setupStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"product_id", "name", "category_id", "category_name", "unit_price"}).
		AddRow(10, "Wireless Mouse", 1, "Electronics", 24.99)
	mock.ExpectQuery("SELECT p.product_id").WillReturnRows(rows)

	products, err := store.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(2499), products[0].UnitPriceCents)
	assert.Equal(t, "Electronics", products[0].CategoryName)
}

func TestClearPayments(t *testing.T) {
	mock, store, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM payments").WillReturnResult(sqlmock.NewResult(0, 42))
	mock.ExpectExec("ALTER TABLE payments AUTO_INCREMENT = 1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.ClearPayments(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearPaymentsRollsBackOnError(t *testing.T) {
	mock, store, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM payments").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := store.ClearPayments(context.Background())
	require.Error(t, err)
	assert.True(t, exception.IsStorageFailure(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetOrderDataDeletesChildrenFirst(t *testing.T) {
	mock, store, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	for _, table := range []string{"product_returns", "payments", "order_items", "orders"} {
		mock.ExpectExec("DELETE FROM " + table).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("ALTER TABLE " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	err := store.ResetOrderData(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkInsert(t *testing.T) {
	mock, store, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `payments`").
		WillReturnResult(sqlmock.NewResult(2, 2))
	mock.ExpectCommit()

	payments := []entity.Payment{
		{OrderID: 1, AttemptNo: 1, AmountPaid: "0.00", PaymentMethodID: 1, PaymentStatusID: 2, PaymentDate: time.Now().UTC()},
		{OrderID: 1, AttemptNo: 2, AmountPaid: "59.97", PaymentMethodID: 1, PaymentStatusID: 1, PaymentDate: time.Now().UTC()},
	}
	n, err := store.BulkInsert(context.Background(), "payments", payments)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
