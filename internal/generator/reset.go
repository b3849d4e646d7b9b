package generator

import (
	"context"

	"github.com/shopseed/shopseed/internal/repository"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

const resetJobName = "reset"

// ResetJob empties the generated order data (returns, payments, order items,
// orders) and rewinds the id counters, leaving lookup tables and customers
// intact.
type ResetJob struct {
	store repository.Store
}

// NewResetJob creates the reset job.
func NewResetJob(store repository.Store) *ResetJob {
	return &ResetJob{store: store}
}

// Name implements Job.
func (j *ResetJob) Name() string { return resetJobName }

// Run implements Job.
func (j *ResetJob) Run(ctx context.Context) error {
	if err := j.store.ResetOrderData(ctx); err != nil {
		return err
	}
	logger.Infof("Order data reset; id counters rewound.")
	return nil
}
