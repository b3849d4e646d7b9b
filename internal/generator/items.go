package generator

import (
	"context"

	"github.com/shopseed/shopseed/internal/batch"
	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/internal/metrics"
	"github.com/shopseed/shopseed/internal/repository"
	"github.com/shopseed/shopseed/pkg/sampling"
	"github.com/shopseed/shopseed/pkg/support/exception"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

const itemsJobName = "order_items"

// OrderItemsJob fills each order's cart: a weighted cart size, distinct
// products drawn proportionally to their category weight, and a weighted
// quantity per line.
type OrderItemsJob struct {
	cfg   config.OrderItemsConfig
	seed  int64
	store repository.Store
	rec   metrics.Recorder
}

// NewOrderItemsJob creates the order-items generator.
func NewOrderItemsJob(cfg *config.Config, store repository.Store, rec metrics.Recorder) *OrderItemsJob {
	return &OrderItemsJob{
		cfg:   cfg.Shopseed.Generator.OrderItems,
		seed:  cfg.Shopseed.Seed,
		store: store,
		rec:   rec,
	}
}

// Name implements Job.
func (j *OrderItemsJob) Name() string { return itemsJobName }

// Run implements Job.
func (j *OrderItemsJob) Run(ctx context.Context) error {
	src := sampling.NewSource(j.seed)

	products, err := j.store.FetchProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return exception.NewBatchError(itemsJobName, "products table is empty", nil, false, false)
	}

	orders, err := j.store.FetchOrderIDs(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return exception.NewBatchError(itemsJobName, "orders table is empty; run the orders job first", nil, false, false)
	}

	if j.cfg.ClearExisting {
		if err := j.store.ClearOrderItems(ctx); err != nil {
			return err
		}
	}

	cartDist := sampling.FromMap(j.cfg.CartSizeWeights)
	qtyDist := sampling.FromMap(j.cfg.QuantityWeights)

	// Per-product weight follows the product's category weight.
	weightOf := func(idx int) float64 {
		w, ok := j.cfg.CategoryWeights[products[idx].CategoryName]
		if !ok {
			w = j.cfg.DefaultCategoryWeight
		}
		return w
	}
	productIdx := make([]int, len(products))
	for i := range products {
		productIdx[i] = i
	}

	buf := batch.NewBuffer(j.cfg.BatchSize, func(rows []entity.OrderItem) error {
		if _, err := j.store.BulkInsert(ctx, entity.OrderItem{}.TableName(), rows); err != nil {
			return err
		}
		j.rec.RecordBatchFlush(itemsJobName, entity.OrderItem{}.TableName())
		return nil
	})

	for _, orderID := range orders {
		cartSize, err := sampling.DrawKey(src, cartDist)
		if err != nil {
			return err
		}
		chosen := sampling.DrawDistinctWeighted(src, productIdx, weightOf, cartSize)
		for _, pi := range chosen {
			qty, err := sampling.DrawKey(src, qtyDist)
			if err != nil {
				return err
			}
			if qty < 1 {
				qty = 1
			}
			err = buf.Add(entity.OrderItem{
				OrderID:   orderID,
				ProductID: products[pi].ProductID,
				Quantity:  qty,
				UnitPrice: entity.FormatCents(products[pi].UnitPriceCents),
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

	j.rec.RecordRowsGenerated(itemsJobName, entity.OrderItem{}.TableName(), buf.Flushed())
	logger.Infof("Inserted %d order items across %d orders.", buf.Flushed(), len(orders))
	return nil
}
