package entity

// PaymentExport is the Parquet projection of a payment row joined with its
// method and status codes, produced by the export job.
type PaymentExport struct {
	PaymentID     int64  `parquet:"name=payment_id, type=INT64"`
	OrderID       int64  `parquet:"name=order_id, type=INT64"`
	AttemptNo     int32  `parquet:"name=attempt_no, type=INT32"`
	PaymentDate   string `parquet:"name=payment_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	AmountPaid    string `parquet:"name=amount_paid, type=BYTE_ARRAY, convertedtype=UTF8"`
	PaymentMethod string `parquet:"name=payment_method, type=BYTE_ARRAY, convertedtype=UTF8"`
	PaymentStatus string `parquet:"name=payment_status, type=BYTE_ARRAY, convertedtype=UTF8"`
}
