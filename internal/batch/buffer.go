// Package batch provides the chunked write buffer used by the generator jobs
// to keep bulk inserts bounded in size.
package batch

// FlushFunc receives a full or final chunk of rows. The slice is only valid
// for the duration of the call.
type FlushFunc[T any] func(rows []T) error

// Buffer accumulates rows and flushes them in chunks of a fixed threshold.
// The final partial chunk is flushed explicitly via Flush. Not safe for
// concurrent use.
type Buffer[T any] struct {
	threshold int
	rows      []T
	flush     FlushFunc[T]
	added     int64
	flushed   int64
}

// NewBuffer creates a Buffer flushing every threshold rows. A threshold below
// 1 is treated as 1.
func NewBuffer[T any](threshold int, flush FlushFunc[T]) *Buffer[T] {
	if threshold < 1 {
		threshold = 1
	}
	return &Buffer[T]{
		threshold: threshold,
		rows:      make([]T, 0, threshold),
		flush:     flush,
	}
}

// Add appends a row and flushes the chunk when the threshold is reached.
func (b *Buffer[T]) Add(row T) error {
	b.rows = append(b.rows, row)
	b.added++
	if len(b.rows) >= b.threshold {
		return b.flushNow()
	}
	return nil
}

// Flush writes out any remaining buffered rows.
func (b *Buffer[T]) Flush() error {
	if len(b.rows) == 0 {
		return nil
	}
	return b.flushNow()
}

func (b *Buffer[T]) flushNow() error {
	chunk := b.rows
	b.rows = make([]T, 0, b.threshold)
	if err := b.flush(chunk); err != nil {
		return err
	}
	b.flushed += int64(len(chunk))
	return nil
}

// Added returns the total number of rows passed to Add.
func (b *Buffer[T]) Added() int64 {
	return b.added
}

// Flushed returns the total number of rows successfully flushed.
func (b *Buffer[T]) Flushed() int64 {
	return b.flushed
}
