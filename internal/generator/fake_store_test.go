package generator

import (
	"context"
	"fmt"

	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/internal/repository"
)

// fakeStore is an in-memory Store that records inserted rows per table and
// serves canned lookup data. It backs the job tests so they exercise the
// full job flow without a database.
type fakeStore struct {
	orders      []entity.OrderInfo
	methods     map[string]int64
	statuses    map[string]int64
	orderStatus map[string]int64
	reasons     map[string]int64
	countries   map[string]int64
	customerIDs []int64
	orderIDs    []int64
	products    []entity.Product
	candidates  []repository.ReturnCandidate
	exports     []entity.PaymentExport
	inserted    map[string][]interface{}
	cleared     []string
	insertErr   error
	resetCalled bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		methods:     map[string]int64{"card": 1, "paypal": 2, "mbway": 3, "bank_transfer": 4},
		statuses:    map[string]int64{"paid": 1, "failed": 2},
		orderStatus: map[string]int64{"delivered": 1, "cancelled": 2},
		reasons:     map[string]int64{"damaged": 1, "not_as_described": 2, "late": 3, "change_of_mind": 4, "other": 5},
		countries:   map[string]int64{"PT": 1, "ES": 2, "FR": 3, "DE": 4, "IT": 5, "NL": 6, "BE": 7, "GR": 8, "HR": 9, "IE": 10},
		inserted:    make(map[string][]interface{}),
	}
}

func (s *fakeStore) FetchOrdersWithTotals(context.Context) ([]entity.OrderInfo, error) {
	return s.orders, nil
}

func (s *fakeStore) FetchPaymentMethods(context.Context) (map[string]int64, error) {
	return s.methods, nil
}

func (s *fakeStore) FetchPaymentStatuses(context.Context) (map[string]int64, error) {
	return s.statuses, nil
}

func (s *fakeStore) FetchOrderStatuses(context.Context) (map[string]int64, error) {
	return s.orderStatus, nil
}

func (s *fakeStore) FetchReturnReasons(context.Context) (map[string]int64, error) {
	return s.reasons, nil
}

func (s *fakeStore) FetchCountries(context.Context) (map[string]int64, error) {
	return s.countries, nil
}

func (s *fakeStore) FetchCustomerIDs(context.Context) ([]int64, error) {
	return s.customerIDs, nil
}

func (s *fakeStore) FetchOrderIDs(context.Context) ([]int64, error) {
	return s.orderIDs, nil
}

func (s *fakeStore) FetchProducts(context.Context) ([]entity.Product, error) {
	return s.products, nil
}

func (s *fakeStore) FetchReturnCandidates(context.Context) ([]repository.ReturnCandidate, error) {
	return s.candidates, nil
}

func (s *fakeStore) ClearPayments(context.Context) error {
	s.cleared = append(s.cleared, "payments")
	return nil
}

func (s *fakeStore) ClearReturns(context.Context) error {
	s.cleared = append(s.cleared, "product_returns")
	return nil
}

func (s *fakeStore) ClearOrderItems(context.Context) error {
	s.cleared = append(s.cleared, "order_items")
	return nil
}

func (s *fakeStore) ResetOrderData(context.Context) error {
	s.resetCalled = true
	return nil
}

func (s *fakeStore) BulkInsert(_ context.Context, tableName string, rows interface{}) (int64, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	var n int64
	switch typed := rows.(type) {
	case []entity.Customer:
		for _, r := range typed {
			s.inserted[tableName] = append(s.inserted[tableName], r)
		}
		n = int64(len(typed))
	case []entity.Order:
		for _, r := range typed {
			s.inserted[tableName] = append(s.inserted[tableName], r)
		}
		n = int64(len(typed))
	case []entity.OrderItem:
		for _, r := range typed {
			s.inserted[tableName] = append(s.inserted[tableName], r)
		}
		n = int64(len(typed))
	case []entity.Payment:
		for _, r := range typed {
			s.inserted[tableName] = append(s.inserted[tableName], r)
		}
		n = int64(len(typed))
	case []entity.ProductReturn:
		for _, r := range typed {
			s.inserted[tableName] = append(s.inserted[tableName], r)
		}
		n = int64(len(typed))
	default:
		return 0, fmt.Errorf("unexpected row type %T", rows)
	}
	return n, nil
}

func (s *fakeStore) FetchPaymentExports(context.Context) ([]entity.PaymentExport, error) {
	return s.exports, nil
}

func (s *fakeStore) payments() []entity.Payment {
	rows := make([]entity.Payment, 0, len(s.inserted["payments"]))
	for _, r := range s.inserted["payments"] {
		rows = append(rows, r.(entity.Payment))
	}
	return rows
}

func (s *fakeStore) insertedOrders() []entity.Order {
	rows := make([]entity.Order, 0, len(s.inserted["orders"]))
	for _, r := range s.inserted["orders"] {
		rows = append(rows, r.(entity.Order))
	}
	return rows
}

func (s *fakeStore) customers() []entity.Customer {
	rows := make([]entity.Customer, 0, len(s.inserted["customers"]))
	for _, r := range s.inserted["customers"] {
		rows = append(rows, r.(entity.Customer))
	}
	return rows
}

func (s *fakeStore) orderItems() []entity.OrderItem {
	rows := make([]entity.OrderItem, 0, len(s.inserted["order_items"]))
	for _, r := range s.inserted["order_items"] {
		rows = append(rows, r.(entity.OrderItem))
	}
	return rows
}

func (s *fakeStore) returns() []entity.ProductReturn {
	rows := make([]entity.ProductReturn, 0, len(s.inserted["product_returns"]))
	for _, r := range s.inserted["product_returns"] {
		rows = append(rows, r.(entity.ProductReturn))
	}
	return rows
}
