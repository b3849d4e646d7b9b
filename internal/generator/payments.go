package generator

import (
	"context"

	"github.com/shopseed/shopseed/internal/batch"
	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/internal/metrics"
	"github.com/shopseed/shopseed/internal/repository"
	"github.com/shopseed/shopseed/internal/simulator"
	"github.com/shopseed/shopseed/pkg/sampling"
	"github.com/shopseed/shopseed/pkg/support/exception"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

const paymentsJobName = "payments"

// PaymentsJob drives the payment attempt simulator over every eligible order
// and persists the resulting attempt rows in batches.
type PaymentsJob struct {
	cfg   config.PaymentsConfig
	seed  int64
	store repository.Store
	rec   metrics.Recorder
}

// NewPaymentsJob creates the payments generator.
func NewPaymentsJob(cfg *config.Config, store repository.Store, rec metrics.Recorder) *PaymentsJob {
	return &PaymentsJob{
		cfg:   cfg.Shopseed.Generator.Payments,
		seed:  cfg.Shopseed.Seed,
		store: store,
		rec:   rec,
	}
}

// Name implements Job.
func (j *PaymentsJob) Name() string { return paymentsJobName }

// simulatorConfig converts the YAML method table into the simulator's
// ordered configuration.
func (j *PaymentsJob) simulatorConfig() simulator.Config {
	attemptWeights := make(map[int]float64, len(j.cfg.AttemptCountWeights))
	for k, v := range j.cfg.AttemptCountWeights {
		attemptWeights[k] = v
	}
	methods := make([]simulator.MethodConfig, 0, len(j.cfg.Methods))
	for _, m := range j.cfg.Methods {
		methods = append(methods, simulator.MethodConfig{
			Code:            m.Code,
			Weight:          m.Weight,
			MaxAttempts:     m.MaxAttempts,
			StayProbability: m.StayWithMethodProb,
			SuccessRate:     m.SuccessRate,
		})
	}
	return simulator.Config{
		GlobalMaxAttempts: j.cfg.GlobalMaxAttempts,
		AttemptCountDist:  sampling.FromMap(attemptWeights),
		WindowSeconds:     j.cfg.WindowSeconds,
		Methods:           methods,
	}
}

// Run implements Job.
func (j *PaymentsJob) Run(ctx context.Context) error {
	src := sampling.NewSource(j.seed)

	methodIDs, err := j.store.FetchPaymentMethods(ctx)
	if err != nil {
		return err
	}
	if len(methodIDs) == 0 {
		return exception.NewBatchError(paymentsJobName, "payment_methods table is empty", nil, false, false)
	}
	statusIDs, err := j.store.FetchPaymentStatuses(ctx)
	if err != nil {
		return err
	}
	paidID, ok := statusIDs["paid"]
	if !ok {
		return exception.NewBatchError(paymentsJobName, "payment_status table is missing the 'paid' code", nil, false, false)
	}
	failedID, ok := statusIDs["failed"]
	if !ok {
		return exception.NewBatchError(paymentsJobName, "payment_status table is missing the 'failed' code", nil, false, false)
	}
	// Individual unmapped methods are skippable, but the forced resolution
	// needs at least one configured method with a storage id.
	mapped := false
	for _, m := range j.cfg.Methods {
		if _, ok := methodIDs[m.Code]; ok {
			mapped = true
			break
		}
	}
	if !mapped {
		return exception.NewBatchError(paymentsJobName,
			"none of the configured payment methods exists in payment_methods",
			exception.ErrMissingMethodMapping, false, false)
	}

	orderStatusIDs, err := j.store.FetchOrderStatuses(ctx)
	if err != nil {
		return err
	}
	cancelledID := orderStatusIDs["cancelled"]

	orders, err := j.store.FetchOrdersWithTotals(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return exception.NewBatchError(paymentsJobName, "no orders with a positive total; run the order_items job first", nil, false, false)
	}

	if j.cfg.ClearExisting {
		if err := j.store.ClearPayments(ctx); err != nil {
			return err
		}
	}

	sim := simulator.New(j.simulatorConfig(), src, methodIDs)
	sim.OnSkip(func(order entity.OrderInfo, code string) {
		j.rec.RecordSkippedAttempt("missing_method_mapping")
	})

	buf := batch.NewBuffer(j.cfg.BatchSize, func(rows []entity.Payment) error {
		if _, err := j.store.BulkInsert(ctx, entity.Payment{}.TableName(), rows); err != nil {
			return err
		}
		j.rec.RecordBatchFlush(paymentsJobName, entity.Payment{}.TableName())
		return nil
	})

	paidOrders := 0
	for _, order := range orders {
		cancelled := order.OrderStatusID == cancelledID
		traces, err := sim.SimulateOrder(order, cancelled)
		if err != nil {
			return err
		}
		for _, tr := range traces {
			statusID := failedID
			if tr.Success {
				statusID = paidID
				paidOrders++
			}
			err = buf.Add(entity.Payment{
				OrderID:         order.OrderID,
				AttemptNo:       tr.AttemptNo,
				PaymentDate:     tr.Timestamp,
				AmountPaid:      entity.FormatCents(tr.AmountCents),
				PaymentMethodID: methodIDs[tr.Method],
				PaymentStatusID: statusID,
			})
			if err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := buf.Flush(); err != nil {
		return err
	}

	j.rec.RecordRowsGenerated(paymentsJobName, entity.Payment{}.TableName(), buf.Flushed())
	logger.Infof("Inserted %d payment attempts for %d orders (%d paid).", buf.Flushed(), len(orders), paidOrders)
	return nil
}
