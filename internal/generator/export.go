package generator

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/internal/repository"
	"github.com/shopseed/shopseed/pkg/storage"
	"github.com/shopseed/shopseed/pkg/support/exception"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

const exportJobName = "export"

// ExportJob writes the generated payments, joined with their method and
// status codes, to a Parquet file on the configured storage backend. The
// file is partitioned by nothing: one run produces one file.
type ExportJob struct {
	store    repository.Store
	storage  storage.Connection
	baseName string
}

// NewExportJob creates the Parquet export job. baseName is the object name
// without extension, e.g. "payments".
func NewExportJob(store repository.Store, conn storage.Connection, baseName string) *ExportJob {
	if baseName == "" {
		baseName = "payments"
	}
	return &ExportJob{store: store, storage: conn, baseName: baseName}
}

// Name implements Job.
func (j *ExportJob) Name() string { return exportJobName }

// Run implements Job.
func (j *ExportJob) Run(ctx context.Context) error {
	exports, err := j.store.FetchPaymentExports(ctx)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		logger.Warnf("No payments to export; skipping Parquet write.")
		return nil
	}

	buf := new(bytes.Buffer)
	// One row group for the whole file.
	pw, err := writer.NewParquetWriterFromWriter(buf, new(entity.PaymentExport), int64(len(exports)))
	if err != nil {
		return exception.NewBatchError(exportJobName, "failed to create Parquet writer", err, false, false)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range exports {
		if err := pw.Write(exports[i]); err != nil {
			return exception.NewBatchError(exportJobName, "failed to write Parquet row", err, false, false)
		}
	}
	if err := writeStop(pw); err != nil {
		return exception.NewBatchError(exportJobName, "failed to finalize Parquet file", err, false, false)
	}

	objectName := fmt.Sprintf("%s.parquet", j.baseName)
	if err := j.storage.Upload(ctx, objectName, buf, "application/octet-stream"); err != nil {
		return exception.NewStorageFailure(exportJobName, fmt.Sprintf("failed to upload '%s'", objectName), err)
	}

	logger.Infof("Exported %d payment rows to %s (%d bytes).", len(exports), objectName, buf.Len())
	return nil
}

// writeStop finalizes the Parquet stream, converting library panics into
// errors.
func writeStop(pw *writer.ParquetWriter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parquet writer panicked during WriteStop: %v", r)
		}
	}()
	return pw.WriteStop()
}
