package generator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopseed/shopseed/internal/batch"
	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/internal/metrics"
	"github.com/shopseed/shopseed/internal/repository"
	"github.com/shopseed/shopseed/pkg/sampling"
	"github.com/shopseed/shopseed/pkg/support/exception"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

const ordersJobName = "orders"

// monthWeights models seasonality: a Q4 peak, a summer dip.
var monthWeights = map[time.Month]float64{
	time.January: 0.95, time.February: 0.95, time.March: 1.00, time.April: 1.05,
	time.May: 1.10, time.June: 0.95, time.July: 0.85, time.August: 0.90,
	time.September: 1.10, time.October: 1.25, time.November: 1.45, time.December: 1.80,
}

// OrdersJob plans a number of orders per customer from the configured
// discrete distribution and spreads them over the date window with seasonal
// weighting.
type OrdersJob struct {
	cfg   config.OrdersConfig
	seed  int64
	store repository.Store
	rec   metrics.Recorder
}

// NewOrdersJob creates the orders generator.
func NewOrdersJob(cfg *config.Config, store repository.Store, rec metrics.Recorder) *OrdersJob {
	return &OrdersJob{
		cfg:   cfg.Shopseed.Generator.Orders,
		seed:  cfg.Shopseed.Seed,
		store: store,
		rec:   rec,
	}
}

// Name implements Job.
func (j *OrdersJob) Name() string { return ordersJobName }

// Run implements Job.
func (j *OrdersJob) Run(ctx context.Context) error {
	src := sampling.NewSource(j.seed)

	start, err := time.ParseInLocation("2006-01-02", j.cfg.StartDate, time.UTC)
	if err != nil {
		return exception.NewBatchError(ordersJobName, "invalid orders.start_date", err, false, false)
	}
	endExcl, err := time.ParseInLocation("2006-01-02", j.cfg.EndDate, time.UTC)
	if err != nil {
		return exception.NewBatchError(ordersJobName, "invalid orders.end_date", err, false, false)
	}
	if !start.Before(endExcl) {
		return exception.NewBatchError(ordersJobName, "orders.start_date must precede orders.end_date", nil, false, false)
	}

	customerIDs, err := j.store.FetchCustomerIDs(ctx)
	if err != nil {
		return err
	}
	if len(customerIDs) == 0 {
		return exception.NewBatchError(ordersJobName, "customers table is empty; run the customers job first", nil, false, false)
	}

	statusIDs, err := j.store.FetchOrderStatuses(ctx)
	if err != nil {
		return err
	}
	deliveredID, ok := statusIDs["delivered"]
	if !ok {
		return exception.NewBatchError(ordersJobName, "order_status table is missing the 'delivered' code", nil, false, false)
	}
	cancelledID, ok := statusIDs["cancelled"]
	if !ok {
		return exception.NewBatchError(ordersJobName, "order_status table is missing the 'cancelled' code", nil, false, false)
	}

	perCustomer := sampling.FromMap(j.cfg.PerCustomerWeights)
	maxPerCustomer := 0
	for _, e := range perCustomer {
		if e.Key > maxPerCustomer {
			maxPerCustomer = e.Key
		}
	}
	if j.cfg.MinTotalOrders > len(customerIDs)*maxPerCustomer {
		return exception.NewBatchError(ordersJobName,
			fmt.Sprintf("orders.min_total_orders=%d is unreachable with %d customers and at most %d orders each",
				j.cfg.MinTotalOrders, len(customerIDs), maxPerCustomer), nil, false, false)
	}

	plan, err := j.planOrders(src, customerIDs, perCustomer)
	if err != nil {
		return err
	}

	// Draw one timestamp per planned order and sort so order_id follows
	// chronology.
	dates := make([]time.Time, len(plan))
	for i := range plan {
		dates[i], err = j.randomOrderTime(src, start, endExcl)
		if err != nil {
			return err
		}
	}
	sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })

	statusDist := sampling.Distribution[int64]{
		{Key: deliveredID, Weight: j.cfg.DeliveredWeight},
		{Key: cancelledID, Weight: j.cfg.CancelledWeight},
	}

	buf := batch.NewBuffer(j.cfg.BatchSize, func(rows []entity.Order) error {
		if _, err := j.store.BulkInsert(ctx, entity.Order{}.TableName(), rows); err != nil {
			return err
		}
		j.rec.RecordBatchFlush(ordersJobName, entity.Order{}.TableName())
		return nil
	})

	delivered, cancelled := 0, 0
	for i, customerID := range plan {
		statusID, err := sampling.DrawKey(src, statusDist)
		if err != nil {
			return err
		}
		if statusID == cancelledID {
			cancelled++
		} else {
			delivered++
		}
		err = buf.Add(entity.Order{
			CustomerID:    customerID,
			OrderDate:     dates[i],
			OrderStatusID: statusID,
			CreatedAt:     dates[i],
			UpdatedAt:     dates[i],
		})
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := buf.Flush(); err != nil {
		return err
	}

	j.rec.RecordRowsGenerated(ordersJobName, entity.Order{}.TableName(), buf.Flushed())
	logger.Infof("Inserted %d orders (%d delivered, %d cancelled).", buf.Flushed(), delivered, cancelled)
	return nil
}

// planOrders draws an order count per customer and regenerates the whole
// plan until the configured minimum total is met.
func (j *OrdersJob) planOrders(src *sampling.Source, customerIDs []int64, dist sampling.Distribution[int]) ([]int64, error) {
	for attempt := 1; ; attempt++ {
		var plan []int64
		for _, cid := range customerIDs {
			n, err := sampling.DrawKey(src, dist)
			if err != nil {
				return nil, err
			}
			for k := 0; k < n; k++ {
				plan = append(plan, cid)
			}
		}
		if j.cfg.MinTotalOrders <= 0 || len(plan) >= j.cfg.MinTotalOrders {
			if attempt > 1 {
				logger.Infof("Order plan minimum reached on attempt %d: total=%d.", attempt, len(plan))
			}
			return plan, nil
		}
		logger.Infof("Order plan attempt %d produced %d < minimum %d; regenerating.", attempt, len(plan), j.cfg.MinTotalOrders)
	}
}

// randomOrderTime draws a seasonal timestamp: month weighted by
// monthWeights, day boosted on weekends, Black Friday week and the run-up to
// Christmas, hour peaking in the evening.
func (j *OrdersJob) randomOrderTime(src *sampling.Source, start, endExcl time.Time) (time.Time, error) {
	type span struct {
		start   time.Time
		endExcl time.Time
	}

	var months sampling.Distribution[int]
	var spans []span
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for cur.Before(endExcl) {
		next := cur.AddDate(0, 1, 0)
		s := cur
		if s.Before(start) {
			s = start
		}
		e := next
		if endExcl.Before(e) {
			e = endExcl
		}
		if s.Before(e) {
			months = append(months, sampling.Entry[int]{Key: len(spans), Weight: monthWeights[cur.Month()]})
			spans = append(spans, span{start: s, endExcl: e})
		}
		cur = next
	}

	mi, err := sampling.DrawKey(src, months)
	if err != nil {
		return time.Time{}, err
	}
	month := spans[mi]

	var days sampling.Distribution[int]
	var dayStarts []time.Time
	for d := month.start.Truncate(24 * time.Hour); d.Before(month.endExcl); d = d.AddDate(0, 0, 1) {
		w := 1.0
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			w *= 1.25
		}
		if d.Month() == time.November && d.Weekday() == time.Friday && d.Day() >= 22 && d.Day() <= 28 {
			w *= 2.5
		}
		if d.Month() == time.December && d.Day() >= 20 && d.Day() <= 24 {
			w *= 1.5
		}
		days = append(days, sampling.Entry[int]{Key: len(dayStarts), Weight: w})
		dayStarts = append(dayStarts, d)
	}

	di, err := sampling.DrawKey(src, days)
	if err != nil {
		return time.Time{}, err
	}
	day := dayStarts[di]

	var hours sampling.Distribution[int]
	for h := 0; h < 24; h++ {
		w := 1.0
		if h >= 17 && h <= 21 {
			w = 2.0
		}
		hours = append(hours, sampling.Entry[int]{Key: h, Weight: w})
	}
	h, err := sampling.DrawKey(src, hours)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), h, src.IntN(60), src.IntN(60), 0, time.UTC), nil
}
