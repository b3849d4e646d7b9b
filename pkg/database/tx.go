package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Tx represents an ongoing database transaction. Rows buffered by the batch
// writers are handed to BulkInsert as one unit; Commit or Rollback ends the
// transaction.
type Tx interface {
	// BulkInsert inserts the given rows (a slice of entities, or a pointer to
	// one) into tableName within this transaction.
	// Returns: The number of affected rows and any error that occurred.
	BulkInsert(ctx context.Context, tableName string, rows interface{}) (rowsAffected int64, err error)

	// Exec runs a raw statement within this transaction.
	Exec(ctx context.Context, stmt string, args ...interface{}) error

	// Commit commits the transaction, persisting all changes made within it.
	Commit() error

	// Rollback rolls back the transaction, undoing all changes made within it.
	Rollback() error
}

// gormTxAdapter implements Tx over a transactional *gorm.DB.
type gormTxAdapter struct {
	db *gorm.DB
}

var _ Tx = (*gormTxAdapter)(nil)

func (t *gormTxAdapter) BulkInsert(ctx context.Context, tableName string, rows interface{}) (int64, error) {
	result := t.db.WithContext(ctx).Table(tableName).Create(rows)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (t *gormTxAdapter) Exec(ctx context.Context, stmt string, args ...interface{}) error {
	return t.db.WithContext(ctx).Exec(stmt, args...).Error
}

func (t *gormTxAdapter) Commit() error {
	if err := t.db.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *gormTxAdapter) Rollback() error {
	if err := t.db.Rollback().Error; err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
