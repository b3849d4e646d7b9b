// Package repository provides the persistence layer used by the generator
// jobs: lookup fetchers, bulk inserts, and the destructive reset operations.
package repository

import (
	"context"
	"time"

	"github.com/shopseed/shopseed/internal/domain/entity"
)

// ReturnCandidate is one order item from a paid, completed order, joined with
// the details the returns generator samples against: product category, the
// buyer's country, and the last successful payment date that anchors the
// return timestamp.
type ReturnCandidate struct {
	OrderItemID  int64     `gorm:"column:order_item_id"`
	OrderID      int64     `gorm:"column:order_id"`
	ProductID    int64     `gorm:"column:product_id"`
	Quantity     int       `gorm:"column:quantity"`
	UnitPrice    float64   `gorm:"column:unit_price"`
	CategoryName string    `gorm:"column:category_name"`
	CountryCode  string    `gorm:"column:country_code"`
	LastPaidAt   time.Time `gorm:"column:last_paid_at"`
}

// Store is the persistence interface consumed by the generator jobs.
// Implementations must be safe for sequential use by a single job runner;
// concurrent use is not required.
type Store interface {
	// FetchOrdersWithTotals returns every order with a positive summed item
	// total, in cents, ordered by order_id ascending.
	FetchOrdersWithTotals(ctx context.Context) ([]entity.OrderInfo, error)

	// FetchPaymentMethods returns the code -> id mapping from payment_methods.
	FetchPaymentMethods(ctx context.Context) (map[string]int64, error)
	// FetchPaymentStatuses returns the code -> id mapping from payment_status.
	FetchPaymentStatuses(ctx context.Context) (map[string]int64, error)
	// FetchOrderStatuses returns the code -> id mapping from order_status.
	FetchOrderStatuses(ctx context.Context) (map[string]int64, error)
	// FetchReturnReasons returns the code -> id mapping from return_reasons.
	FetchReturnReasons(ctx context.Context) (map[string]int64, error)
	// FetchCountries returns the code -> id mapping from countries.
	FetchCountries(ctx context.Context) (map[string]int64, error)

	// FetchCustomerIDs returns all customer ids ordered ascending.
	FetchCustomerIDs(ctx context.Context) ([]int64, error)
	// FetchOrderIDs returns all order ids ordered ascending.
	FetchOrderIDs(ctx context.Context) ([]int64, error)
	// FetchProducts returns the catalog ordered by product_id ascending.
	FetchProducts(ctx context.Context) ([]entity.Product, error)
	// FetchReturnCandidates returns order items from paid delivered or
	// cancelled orders, joined with product category, buyer country and last
	// payment date, ordered by order_item_id ascending.
	FetchReturnCandidates(ctx context.Context) ([]ReturnCandidate, error)

	// ClearPayments deletes all payment rows.
	ClearPayments(ctx context.Context) error
	// ClearReturns deletes all product return rows.
	ClearReturns(ctx context.Context) error
	// ClearOrderItems deletes all order item rows.
	ClearOrderItems(ctx context.Context) error
	// ResetOrderData deletes returns, order items and orders, and resets the
	// auto-increment counters of the emptied tables.
	ResetOrderData(ctx context.Context) error

	// BulkInsert persists rows into tableName inside a single transaction and
	// returns the number of rows written. rows must be a slice of entities.
	BulkInsert(ctx context.Context, tableName string, rows interface{}) (int64, error)

	// FetchPaymentExports returns payments joined with method and status codes
	// for the Parquet export, ordered by payment_id ascending.
	FetchPaymentExports(ctx context.Context) ([]entity.PaymentExport, error)
}
