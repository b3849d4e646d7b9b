package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/pkg/database"
	"github.com/shopseed/shopseed/pkg/support/exception"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

const moduleRepository = "repository"

// gormStore implements Store on top of a database.Connection.
type gormStore struct {
	conn *database.Connection
}

// NewStore creates a Store backed by the given database connection.
func NewStore(conn *database.Connection) Store {
	return &gormStore{conn: conn}
}

// orderTotalRow is the scan target for FetchOrdersWithTotals. The total is
// summed in SQL as a decimal and converted to cents in Go so the query stays
// portable across dialects.
type orderTotalRow struct {
	OrderID       int64     `gorm:"column:order_id"`
	OrderDate     time.Time `gorm:"column:order_date"`
	OrderStatusID int64     `gorm:"column:order_status_id"`
	Total         float64   `gorm:"column:total"`
}

func (s *gormStore) FetchOrdersWithTotals(ctx context.Context) ([]entity.OrderInfo, error) {
	var rows []orderTotalRow
	err := s.conn.GORM().WithContext(ctx).Raw(`
		SELECT o.order_id, o.order_date, o.order_status_id,
		       COALESCE(SUM(oi.unit_price * oi.quantity), 0) AS total
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.order_id
		GROUP BY o.order_id, o.order_date, o.order_status_id
		HAVING COALESCE(SUM(oi.unit_price * oi.quantity), 0) > 0
		ORDER BY o.order_id`).Scan(&rows).Error
	if err != nil {
		return nil, exception.NewStorageFailure(moduleRepository, "failed to fetch orders with totals", err)
	}

	infos := make([]entity.OrderInfo, 0, len(rows))
	for _, r := range rows {
		infos = append(infos, entity.OrderInfo{
			OrderID:       r.OrderID,
			OrderDate:     r.OrderDate,
			OrderStatusID: r.OrderStatusID,
			TotalCents:    entity.CentsFromFloat(r.Total),
		})
	}
	return infos, nil
}

// codeRow is the common scan target for code -> id lookup tables.
type codeRow struct {
	ID   int64  `gorm:"column:id"`
	Code string `gorm:"column:code"`
}

func (s *gormStore) fetchCodeMap(ctx context.Context, table, idColumn string) (map[string]int64, error) {
	var rows []codeRow
	query := fmt.Sprintf("SELECT %s AS id, code FROM %s ORDER BY %s", idColumn, table, idColumn)
	if err := s.conn.GORM().WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, exception.NewStorageFailure(moduleRepository, fmt.Sprintf("failed to fetch lookup table '%s'", table), err)
	}
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.Code] = r.ID
	}
	return m, nil
}

func (s *gormStore) FetchPaymentMethods(ctx context.Context) (map[string]int64, error) {
	return s.fetchCodeMap(ctx, "payment_methods", "payment_method_id")
}

func (s *gormStore) FetchPaymentStatuses(ctx context.Context) (map[string]int64, error) {
	return s.fetchCodeMap(ctx, "payment_status", "payment_status_id")
}

func (s *gormStore) FetchOrderStatuses(ctx context.Context) (map[string]int64, error) {
	return s.fetchCodeMap(ctx, "order_status", "order_status_id")
}

func (s *gormStore) FetchReturnReasons(ctx context.Context) (map[string]int64, error) {
	return s.fetchCodeMap(ctx, "return_reasons", "return_reason_id")
}

func (s *gormStore) FetchCountries(ctx context.Context) (map[string]int64, error) {
	return s.fetchCodeMap(ctx, "countries", "country_id")
}

func (s *gormStore) FetchCustomerIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.conn.GORM().WithContext(ctx).
		Raw("SELECT customer_id FROM customers ORDER BY customer_id").Scan(&ids).Error
	if err != nil {
		return nil, exception.NewStorageFailure(moduleRepository, "failed to fetch customer ids", err)
	}
	return ids, nil
}

func (s *gormStore) FetchOrderIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.conn.GORM().WithContext(ctx).
		Raw("SELECT order_id FROM orders ORDER BY order_id").Scan(&ids).Error
	if err != nil {
		return nil, exception.NewStorageFailure(moduleRepository, "failed to fetch order ids", err)
	}
	return ids, nil
}

// productRow scans the catalog with the price as a decimal; cents conversion
// happens in Go.
type productRow struct {
	ProductID    int64   `gorm:"column:product_id"`
	Name         string  `gorm:"column:name"`
	CategoryID   int64   `gorm:"column:category_id"`
	CategoryName string  `gorm:"column:category_name"`
	UnitPrice    float64 `gorm:"column:unit_price"`
}

func (s *gormStore) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	var rows []productRow
	err := s.conn.GORM().WithContext(ctx).Raw(`
		SELECT p.product_id, p.name, p.category_id, c.name AS category_name, p.unit_price
		FROM products p
		JOIN product_categories c ON c.category_id = p.category_id
		ORDER BY p.product_id`).Scan(&rows).Error
	if err != nil {
		return nil, exception.NewStorageFailure(moduleRepository, "failed to fetch products", err)
	}
	products := make([]entity.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, entity.Product{
			ProductID:      r.ProductID,
			Name:           r.Name,
			CategoryID:     r.CategoryID,
			CategoryName:   r.CategoryName,
			UnitPriceCents: entity.CentsFromFloat(r.UnitPrice),
		})
	}
	return products, nil
}

func (s *gormStore) FetchReturnCandidates(ctx context.Context) ([]ReturnCandidate, error) {
	var rows []ReturnCandidate
	err := s.conn.GORM().WithContext(ctx).Raw(`
		SELECT oi.order_item_id, oi.order_id, oi.product_id, oi.quantity,
		       oi.unit_price, pc.name AS category_name, ct.code AS country_code,
		       po.last_paid_at
		FROM order_items oi
		JOIN products pr ON pr.product_id = oi.product_id
		JOIN product_categories pc ON pc.category_id = pr.category_id
		JOIN orders o ON o.order_id = oi.order_id
		JOIN order_status os ON os.order_status_id = o.order_status_id
		JOIN customers cu ON cu.customer_id = o.customer_id
		JOIN countries ct ON ct.country_id = cu.country_id
		JOIN (
			SELECT p.order_id, MAX(p.payment_date) AS last_paid_at
			FROM payments p
			JOIN payment_status ps ON ps.payment_status_id = p.payment_status_id
			WHERE ps.code = 'paid'
			GROUP BY p.order_id
		) po ON po.order_id = oi.order_id
		WHERE os.code IN ('delivered', 'cancelled')
		ORDER BY oi.order_item_id`).Scan(&rows).Error
	if err != nil {
		return nil, exception.NewStorageFailure(moduleRepository, "failed to fetch return candidates", err)
	}
	return rows, nil
}

func (s *gormStore) ClearOrderItems(ctx context.Context) error {
	return s.clearTable(ctx, "order_items", "order_item_id")
}

func (s *gormStore) ClearPayments(ctx context.Context) error {
	return s.clearTable(ctx, "payments", "payment_id")
}

func (s *gormStore) ClearReturns(ctx context.Context) error {
	return s.clearTable(ctx, "product_returns", "return_id")
}

// clearTable deletes all rows and resets the table's auto-increment counter
// so regenerated ids start from 1 again.
func (s *gormStore) clearTable(ctx context.Context, table, idColumn string) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return exception.NewStorageFailure(moduleRepository, "failed to begin transaction", err)
	}
	if err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		tx.Rollback()
		return exception.NewStorageFailure(moduleRepository, fmt.Sprintf("failed to clear table '%s'", table), err)
	}
	if err := s.resetAutoIncrement(ctx, tx, table, idColumn); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return exception.NewStorageFailure(moduleRepository, "failed to commit clear transaction", err)
	}
	logger.Debugf("Cleared table '%s'.", table)
	return nil
}

func (s *gormStore) ResetOrderData(ctx context.Context) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return exception.NewStorageFailure(moduleRepository, "failed to begin transaction", err)
	}
	// Children before parents to satisfy foreign keys.
	tables := []struct {
		name     string
		idColumn string
	}{
		{"product_returns", "return_id"},
		{"payments", "payment_id"},
		{"order_items", "order_item_id"},
		{"orders", "order_id"},
	}
	for _, t := range tables {
		if err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", t.name)); err != nil {
			tx.Rollback()
			return exception.NewStorageFailure(moduleRepository, fmt.Sprintf("failed to clear table '%s'", t.name), err)
		}
		if err := s.resetAutoIncrement(ctx, tx, t.name, t.idColumn); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return exception.NewStorageFailure(moduleRepository, "failed to commit reset transaction", err)
	}
	logger.Infof("Reset order data (orders, order_items, payments, product_returns).")
	return nil
}

// resetAutoIncrement issues the dialect-specific statement that rewinds the
// table's id counter to 1.
func (s *gormStore) resetAutoIncrement(ctx context.Context, tx database.Tx, table, idColumn string) error {
	var stmt string
	var args []interface{}
	switch s.conn.Type() {
	case "mysql":
		stmt = fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = 1", table)
	case "postgres":
		stmt = fmt.Sprintf("ALTER SEQUENCE IF EXISTS %s_%s_seq RESTART WITH 1", table, idColumn)
	case "sqlite":
		stmt = "DELETE FROM sqlite_sequence WHERE name = ?"
		args = []interface{}{table}
	default:
		logger.Warnf("Unknown database type '%s'; skipping auto-increment reset for '%s'.", s.conn.Type(), table)
		return nil
	}
	if err := tx.Exec(ctx, stmt, args...); err != nil {
		return exception.NewStorageFailure(moduleRepository, fmt.Sprintf("failed to reset auto-increment for '%s'", table), err)
	}
	return nil
}

func (s *gormStore) BulkInsert(ctx context.Context, tableName string, rows interface{}) (int64, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return 0, exception.NewStorageFailure(moduleRepository, "failed to begin transaction", err)
	}
	n, err := tx.BulkInsert(ctx, tableName, rows)
	if err != nil {
		tx.Rollback()
		return 0, exception.NewStorageFailure(moduleRepository, fmt.Sprintf("failed to bulk insert into '%s'", tableName), err)
	}
	if err := tx.Commit(); err != nil {
		return 0, exception.NewStorageFailure(moduleRepository, "failed to commit bulk insert", err)
	}
	return n, nil
}

// exportRow scans the payment export join; the timestamp is formatted into
// the Parquet string column afterwards.
type exportRow struct {
	PaymentID     int64     `gorm:"column:payment_id"`
	OrderID       int64     `gorm:"column:order_id"`
	AttemptNo     int32     `gorm:"column:attempt_no"`
	PaymentDate   time.Time `gorm:"column:payment_date"`
	AmountPaid    string    `gorm:"column:amount_paid"`
	PaymentMethod string    `gorm:"column:payment_method"`
	PaymentStatus string    `gorm:"column:payment_status"`
}

func (s *gormStore) FetchPaymentExports(ctx context.Context) ([]entity.PaymentExport, error) {
	var rows []exportRow
	err := s.conn.GORM().WithContext(ctx).Raw(`
		SELECT p.payment_id, p.order_id, p.attempt_no, p.payment_date,
		       p.amount_paid, pm.code AS payment_method, ps.code AS payment_status
		FROM payments p
		JOIN payment_methods pm ON pm.payment_method_id = p.payment_method_id
		JOIN payment_status ps ON ps.payment_status_id = p.payment_status_id
		ORDER BY p.payment_id`).Scan(&rows).Error
	if err != nil {
		return nil, exception.NewStorageFailure(moduleRepository, "failed to fetch payment exports", err)
	}
	exports := make([]entity.PaymentExport, 0, len(rows))
	for _, r := range rows {
		exports = append(exports, entity.PaymentExport{
			PaymentID:     r.PaymentID,
			OrderID:       r.OrderID,
			AttemptNo:     r.AttemptNo,
			PaymentDate:   r.PaymentDate.UTC().Format("2006-01-02 15:04:05"),
			AmountPaid:    r.AmountPaid,
			PaymentMethod: r.PaymentMethod,
			PaymentStatus: r.PaymentStatus,
		})
	}
	return exports, nil
}
