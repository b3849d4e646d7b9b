package generator

import (
	"context"
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

const returnsJobName = "returns"

// ReturnsJob synthesizes product returns for paid orders: order-level
// selection modulated by the buyer's country, item-level selection by
// category rate, and a per-category reason distribution.
type ReturnsJob struct {
	cfg   config.ReturnsConfig
	seed  int64
	store repository.Store
	rec   metrics.Recorder
}

// NewReturnsJob creates the returns generator.
func NewReturnsJob(cfg *config.Config, store repository.Store, rec metrics.Recorder) *ReturnsJob {
	return &ReturnsJob{
		cfg:   cfg.Shopseed.Generator.Returns,
		seed:  cfg.Shopseed.Seed,
		store: store,
		rec:   rec,
	}
}

// Name implements Job.
func (j *ReturnsJob) Name() string { return returnsJobName }

// Run implements Job.
func (j *ReturnsJob) Run(ctx context.Context) error {
	src := sampling.NewSource(j.seed)

	reasonIDs, err := j.store.FetchReturnReasons(ctx)
	if err != nil {
		return err
	}
	if len(reasonIDs) == 0 {
		return exception.NewBatchError(returnsJobName, "return_reasons table is empty", nil, false, false)
	}

	candidates, err := j.store.FetchReturnCandidates(ctx)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		logger.Warnf("No order items eligible for returns; nothing to generate.")
		return nil
	}

	if j.cfg.ClearExisting {
		if err := j.store.ClearReturns(ctx); err != nil {
			return err
		}
	}

	// Group by order, then walk orders chronologically by last payment so
	// the draw sequence is stable.
	itemsByOrder := make(map[int64][]repository.ReturnCandidate)
	var orderIDs []int64
	for _, c := range candidates {
		if _, seen := itemsByOrder[c.OrderID]; !seen {
			orderIDs = append(orderIDs, c.OrderID)
		}
		itemsByOrder[c.OrderID] = append(itemsByOrder[c.OrderID], c)
	}
	sort.Slice(orderIDs, func(a, b int) bool {
		ta := itemsByOrder[orderIDs[a]][0].LastPaidAt
		tb := itemsByOrder[orderIDs[b]][0].LastPaidAt
		if ta.Equal(tb) {
			return orderIDs[a] < orderIDs[b]
		}
		return ta.Before(tb)
	})

	var picked []repository.ReturnCandidate
	for _, oid := range orderIDs {
		items := itemsByOrder[oid]
		mult, ok := j.cfg.CountryMultipliers[items[0].CountryCode]
		if !ok {
			mult = 1.0
		}
		p := clamp01(j.cfg.OrderLevelReturnRate * mult)
		if src.Float64() >= p {
			continue
		}
		sel, err := j.pickItems(src, items)
		if err != nil {
			return err
		}
		picked = append(picked, sel...)
	}
	if len(picked) == 0 {
		logger.Warnf("No order items selected for return; rates may be too low.")
		return nil
	}

	rows := make([]entity.ProductReturn, 0, len(picked))
	for _, it := range picked {
		reasonID, err := j.chooseReason(src, it.CategoryName, reasonIDs)
		if err != nil {
			return err
		}
		days := j.cfg.ReturnMinDays
		if span := j.cfg.ReturnMaxDays - j.cfg.ReturnMinDays; span > 0 {
			days += src.IntN(span + 1)
		}
		paidDay := it.LastPaidAt.UTC().Truncate(24 * time.Hour)
		refundCents := entity.CentsFromFloat(it.UnitPrice) * int64(it.Quantity)
		rows = append(rows, entity.ProductReturn{
			OrderItemID:    it.OrderItemID,
			ReturnDate:     paidDay.AddDate(0, 0, days).Add(12 * time.Hour),
			RefundAmount:   entity.FormatCents(refundCents),
			ReturnReasonID: reasonID,
		})
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].ReturnDate.Before(rows[b].ReturnDate) })

	buf := batch.NewBuffer(j.cfg.BatchSize, func(chunk []entity.ProductReturn) error {
		if _, err := j.store.BulkInsert(ctx, entity.ProductReturn{}.TableName(), chunk); err != nil {
			return err
		}
		j.rec.RecordBatchFlush(returnsJobName, entity.ProductReturn{}.TableName())
		return nil
	})
	for _, r := range rows {
		if err := buf.Add(r); err != nil {
			return err
		}
	}
	if err := buf.Flush(); err != nil {
		return err
	}

	j.rec.RecordRowsGenerated(returnsJobName, entity.ProductReturn{}.TableName(), buf.Flushed())
	logger.Infof("Inserted %d product returns.", buf.Flushed())
	return nil
}

// pickItems selects which of an order's items are returned: each item by its
// category rate, capped at max_items_per_order, with a weighted fallback so
// a selected order returns at least one item.
func (j *ReturnsJob) pickItems(src *sampling.Source, items []repository.ReturnCandidate) ([]repository.ReturnCandidate, error) {
	var picked []repository.ReturnCandidate
	for _, it := range items {
		rate := clamp01(j.cfg.CategoryItemReturnRates[it.CategoryName])
		if src.Float64() < rate {
			picked = append(picked, it)
		}
	}

	if len(picked) > j.cfg.MaxItemsPerOrder {
		idx := make([]int, len(picked))
		for i := range idx {
			idx[i] = i
		}
		kept := sampling.DrawDistinctWeighted(src, idx, func(int) float64 { return 1.0 }, j.cfg.MaxItemsPerOrder)
		sort.Ints(kept)
		trimmed := make([]repository.ReturnCandidate, 0, len(kept))
		for _, i := range kept {
			trimmed = append(trimmed, picked[i])
		}
		picked = trimmed
	}

	if len(picked) == 0 && len(items) > 0 {
		dist := make(sampling.Distribution[int], 0, len(items))
		for i, it := range items {
			dist = append(dist, sampling.Entry[int]{
				Key:    i,
				Weight: j.cfg.CategoryItemReturnRates[it.CategoryName] + 1e-6,
			})
		}
		chosen, err := sampling.DrawKey(src, dist)
		if err != nil {
			return nil, err
		}
		picked = []repository.ReturnCandidate{items[chosen]}
	}
	return picked, nil
}

// chooseReason draws a reason code from the category's distribution and maps
// it to its id, falling back to "other", then to any known reason.
func (j *ReturnsJob) chooseReason(src *sampling.Source, category string, reasonIDs map[string]int64) (int64, error) {
	weights, ok := j.cfg.CategoryReasonWeights[category]
	if !ok {
		weights = map[string]float64{"other": 1.0}
	}
	code, err := sampling.DrawKey(src, sampling.FromMap(weights))
	if err != nil {
		return 0, err
	}
	if id, ok := reasonIDs[code]; ok {
		return id, nil
	}
	if id, ok := reasonIDs["other"]; ok {
		return id, nil
	}
	// Deterministic fallback: smallest id.
	min := int64(0)
	first := true
	for _, id := range reasonIDs {
		if first || id < min {
			min = id
			first = false
		}
	}
	return min, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
