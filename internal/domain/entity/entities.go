// Package entity defines the rows generated into the e-commerce schema and
// the read models consumed by the generators.
package entity

import "time"

// Country is a lookup row for customer countries.
type Country struct {
	CountryID int64  `gorm:"column:country_id;primaryKey"`
	Code      string `gorm:"column:code"`
	Name      string `gorm:"column:name"`
}

// TableName specifies the table name for Country.
func (Country) TableName() string {
	return "countries"
}

// Customer represents a generated customer row.
type Customer struct {
	CustomerID int64     `gorm:"column:customer_id;primaryKey;autoIncrement"`
	FirstName  string    `gorm:"column:first_name"`
	LastName   string    `gorm:"column:last_name"`
	Email      string    `gorm:"column:email"`
	BirthDate  time.Time `gorm:"column:birth_date"`
	City       string    `gorm:"column:city"`
	CountryID  int64     `gorm:"column:country_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// TableName specifies the table name for Customer.
func (Customer) TableName() string {
	return "customers"
}

// ProductCategory is a lookup row for product categories.
type ProductCategory struct {
	CategoryID int64  `gorm:"column:category_id;primaryKey"`
	Name       string `gorm:"column:name"`
}

// TableName specifies the table name for ProductCategory.
func (ProductCategory) TableName() string {
	return "product_categories"
}

// Product is a catalog row read by the order-items generator.
type Product struct {
	ProductID      int64  `gorm:"column:product_id;primaryKey"`
	Name           string `gorm:"column:name"`
	CategoryID     int64  `gorm:"column:category_id"`
	CategoryName   string `gorm:"column:category_name"`
	UnitPriceCents int64  `gorm:"column:unit_price_cents"`
}

// TableName specifies the table name for Product.
func (Product) TableName() string {
	return "products"
}

// Order represents a generated order row.
type Order struct {
	OrderID       int64     `gorm:"column:order_id;primaryKey;autoIncrement"`
	CustomerID    int64     `gorm:"column:customer_id"`
	OrderDate     time.Time `gorm:"column:order_date"`
	OrderStatusID int64     `gorm:"column:order_status_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for Order.
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a generated order line item.
type OrderItem struct {
	OrderItemID int64  `gorm:"column:order_item_id;primaryKey;autoIncrement"`
	OrderID     int64  `gorm:"column:order_id"`
	ProductID   int64  `gorm:"column:product_id"`
	Quantity    int    `gorm:"column:quantity"`
	UnitPrice   string `gorm:"column:unit_price"`
}

// TableName specifies the table name for OrderItem.
func (OrderItem) TableName() string {
	return "order_items"
}

// Payment represents one persisted payment attempt for an order. Rows are
// created by the payment simulator and never mutated after creation.
// AmountPaid carries the full order total on success and "0.00" on failure.
type Payment struct {
	PaymentID       int64     `gorm:"column:payment_id;primaryKey;autoIncrement"`
	OrderID         int64     `gorm:"column:order_id"`
	AttemptNo       int       `gorm:"column:attempt_no"`
	PaymentDate     time.Time `gorm:"column:payment_date"`
	AmountPaid      string    `gorm:"column:amount_paid"`
	PaymentMethodID int64     `gorm:"column:payment_method_id"`
	PaymentStatusID int64     `gorm:"column:payment_status_id"`
}

// TableName specifies the table name for Payment.
func (Payment) TableName() string {
	return "payments"
}

// ProductReturn represents a generated product return row. RefundAmount is
// the line total (unit price times quantity) formatted for DECIMAL(10,2).
type ProductReturn struct {
	ReturnID       int64     `gorm:"column:return_id;primaryKey;autoIncrement"`
	OrderItemID    int64     `gorm:"column:order_item_id"`
	ReturnDate     time.Time `gorm:"column:return_date"`
	RefundAmount   string    `gorm:"column:refund_amount"`
	ReturnReasonID int64     `gorm:"column:return_reason_id"`
}

// TableName specifies the table name for ProductReturn.
func (ProductReturn) TableName() string {
	return "product_returns"
}

// PaymentMethod is a lookup row mapping a method code to its id.
type PaymentMethod struct {
	PaymentMethodID int64  `gorm:"column:payment_method_id;primaryKey"`
	Code            string `gorm:"column:code"`
}

// TableName specifies the table name for PaymentMethod.
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// PaymentStatus is a lookup row mapping a status code (e.g. "paid", "failed")
// to its id.
type PaymentStatus struct {
	PaymentStatusID int64  `gorm:"column:payment_status_id;primaryKey"`
	Code            string `gorm:"column:code"`
}

// TableName specifies the table name for PaymentStatus.
func (PaymentStatus) TableName() string {
	return "payment_status"
}

// OrderStatus is a lookup row mapping an order status code
// (e.g. "delivered", "cancelled") to its id.
type OrderStatus struct {
	OrderStatusID int64  `gorm:"column:order_status_id;primaryKey"`
	Code          string `gorm:"column:code"`
}

// TableName specifies the table name for OrderStatus.
func (OrderStatus) TableName() string {
	return "order_status"
}

// ReturnReason is a lookup row mapping a return reason code to its id.
type ReturnReason struct {
	ReturnReasonID int64  `gorm:"column:return_reason_id;primaryKey"`
	Code           string `gorm:"column:code"`
}

// TableName specifies the table name for ReturnReason.
func (ReturnReason) TableName() string {
	return "return_reasons"
}

// OrderInfo is the read model consumed by the payment simulator: one eligible
// order with its computed total. Immutable for the duration of a simulation.
type OrderInfo struct {
	OrderID       int64
	OrderDate     time.Time
	OrderStatusID int64
	TotalCents    int64
}
