package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/pkg/sampling"
)

var testOrderDate = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func attemptDist() sampling.Distribution[int] {
	return sampling.Distribution[int]{
		{Key: 1, Weight: 45},
		{Key: 2, Weight: 32},
		{Key: 3, Weight: 18},
		{Key: 4, Weight: 5},
	}
}

func fullConfig() Config {
	return Config{
		GlobalMaxAttempts: 4,
		AttemptCountDist:  attemptDist(),
		WindowSeconds:     48 * 60 * 60,
		Methods: []MethodConfig{
			{Code: "card", Weight: 0.58, MaxAttempts: 3, StayProbability: 0.68, SuccessRate: 0.62},
			{Code: "paypal", Weight: 0.18, MaxAttempts: 3, StayProbability: 0.55, SuccessRate: 0.56},
			{Code: "mbway", Weight: 0.18, MaxAttempts: 3, StayProbability: 0.60, SuccessRate: 0.50},
			{Code: "bank_transfer", Weight: 0.06, MaxAttempts: 2, StayProbability: 0.35, SuccessRate: 0.35},
		},
	}
}

func fullMethodIDs() map[string]int64 {
	return map[string]int64{"card": 1, "paypal": 2, "mbway": 3, "bank_transfer": 4}
}

func TestSimulateOrderSingleGuaranteedSuccess(t *testing.T) {
	cfg := Config{
		GlobalMaxAttempts: 4,
		AttemptCountDist:  attemptDist(),
		WindowSeconds:     48 * 60 * 60,
		Methods: []MethodConfig{
			{Code: "card", Weight: 1.0, MaxAttempts: 1, StayProbability: 1.0, SuccessRate: 1.0},
		},
	}
	sim := New(cfg, sampling.NewSource(42), map[string]int64{"card": 1})

	order := entity.OrderInfo{OrderID: 7, OrderDate: testOrderDate, TotalCents: 10000}
	traces, err := sim.SimulateOrder(order, false)
	require.NoError(t, err)

	require.Len(t, traces, 1)
	assert.Equal(t, 1, traces[0].AttemptNo)
	assert.Equal(t, "card", traces[0].Method)
	assert.Equal(t, int64(10000), traces[0].AmountCents)
	assert.True(t, traces[0].Success)
	assert.True(t, traces[0].Timestamp.After(testOrderDate))
	assert.True(t, traces[0].Timestamp.Before(testOrderDate.Add(48*time.Hour)))
}

func TestSimulateOrderCancelledMayStayUnpaid(t *testing.T) {
	cfg := Config{
		GlobalMaxAttempts: 4,
		AttemptCountDist:  attemptDist(),
		WindowSeconds:     48 * 60 * 60,
		Methods: []MethodConfig{
			{Code: "card", Weight: 1.0, MaxAttempts: 1, StayProbability: 1.0, SuccessRate: 0.0},
		},
	}
	sim := New(cfg, sampling.NewSource(42), map[string]int64{"card": 1})

	order := entity.OrderInfo{OrderID: 9, OrderDate: testOrderDate, TotalCents: 5000}
	traces, err := sim.SimulateOrder(order, true)
	require.NoError(t, err)

	// The method cap of 1 leaves no alternative after the first failure.
	require.Len(t, traces, 1)
	assert.False(t, traces[0].Success)
	assert.Equal(t, int64(0), traces[0].AmountCents)
}

func TestSimulateOrderForcedResolution(t *testing.T) {
	cfg := fullConfig()
	for i := range cfg.Methods {
		cfg.Methods[i].SuccessRate = 0.0
	}
	sim := New(cfg, sampling.NewSource(42), fullMethodIDs())

	order := entity.OrderInfo{OrderID: 3, OrderDate: testOrderDate, TotalCents: 2599}
	traces, err := sim.SimulateOrder(order, false)
	require.NoError(t, err)
	require.NotEmpty(t, traces)

	last := traces[len(traces)-1]
	assert.True(t, last.Success)
	assert.Equal(t, int64(2599), last.AmountCents)
	for _, tr := range traces[:len(traces)-1] {
		assert.False(t, tr.Success)
		assert.Equal(t, int64(0), tr.AmountCents)
	}
	if len(traces) > 1 {
		prev := traces[len(traces)-2]
		assert.Equal(t, prev.Timestamp.Add(time.Second), last.Timestamp)
	}
}

func TestSimulateOrderDeterministic(t *testing.T) {
	orders := []entity.OrderInfo{
		{OrderID: 1, OrderDate: testOrderDate, TotalCents: 1999},
		{OrderID: 2, OrderDate: testOrderDate.Add(time.Hour), TotalCents: 45050},
		{OrderID: 3, OrderDate: testOrderDate.Add(2 * time.Hour), TotalCents: 310},
	}

	run := func() [][]AttemptTrace {
		sim := New(fullConfig(), sampling.NewSource(42), fullMethodIDs())
		var all [][]AttemptTrace
		for _, o := range orders {
			traces, err := sim.SimulateOrder(o, false)
			require.NoError(t, err)
			all = append(all, traces)
		}
		return all
	}

	assert.Equal(t, run(), run())
}

func TestSimulateOrderInvariants(t *testing.T) {
	cfg := fullConfig()
	sim := New(cfg, sampling.NewSource(1234), fullMethodIDs())

	caps := map[string]int{}
	for _, m := range cfg.Methods {
		c := m.MaxAttempts
		if c > cfg.GlobalMaxAttempts {
			c = cfg.GlobalMaxAttempts
		}
		caps[m.Code] = c
	}

	for orderID := int64(1); orderID <= 500; orderID++ {
		order := entity.OrderInfo{
			OrderID:    orderID,
			OrderDate:  testOrderDate.Add(time.Duration(orderID) * time.Minute),
			TotalCents: 100 * orderID,
		}
		traces, err := sim.SimulateOrder(order, false)
		require.NoError(t, err)
		require.NotEmpty(t, traces)

		// Exactly one success per non-cancelled order, and it is last.
		successes := 0
		perMethod := map[string]int{}
		var prev time.Time
		for i, tr := range traces {
			assert.Equal(t, i+1, tr.AttemptNo)
			assert.True(t, tr.Timestamp.After(prev))
			prev = tr.Timestamp
			perMethod[tr.Method]++
			if tr.Success {
				successes++
				assert.Equal(t, len(traces)-1, i)
			}
		}
		assert.Equal(t, 1, successes)

		for code, n := range perMethod {
			// The forced-resolution attempt may exceed the natural cap by one.
			assert.LessOrEqual(t, n, caps[code]+1, "order %d method %s", orderID, code)
		}
		assert.LessOrEqual(t, len(traces), cfg.GlobalMaxAttempts+1)
	}
}

func TestSimulateOrderCancelledNeverPaid(t *testing.T) {
	sim := New(fullConfig(), sampling.NewSource(99), fullMethodIDs())
	for orderID := int64(1); orderID <= 200; orderID++ {
		order := entity.OrderInfo{OrderID: orderID, OrderDate: testOrderDate, TotalCents: 777}
		traces, err := sim.SimulateOrder(order, true)
		require.NoError(t, err)
		for _, tr := range traces {
			assert.False(t, tr.Success)
			assert.Equal(t, int64(0), tr.AmountCents)
		}
	}
}

func TestSimulateOrderCancelledOverridesSuccessDraw(t *testing.T) {
	// Even methods that always succeed must fail on a cancelled order; the
	// order total never reaches a payment row.
	cfg := fullConfig()
	for i := range cfg.Methods {
		cfg.Methods[i].SuccessRate = 1.0
	}

	for seed := int64(0); seed < 50; seed++ {
		sim := New(cfg, sampling.NewSource(seed), fullMethodIDs())
		order := entity.OrderInfo{OrderID: 1, OrderDate: testOrderDate, TotalCents: 777}
		traces, err := sim.SimulateOrder(order, true)
		require.NoError(t, err)
		for _, tr := range traces {
			assert.False(t, tr.Success, "seed %d", seed)
			assert.Equal(t, int64(0), tr.AmountCents, "seed %d", seed)
		}
	}
}

func TestSimulateOrderZeroWeightAlternativeTerminates(t *testing.T) {
	// Once the only drawable method is capped, a zero-weight method must not
	// enter the switch pool: the loop ends and the order resolves by force.
	cfg := Config{
		GlobalMaxAttempts: 4,
		AttemptCountDist:  attemptDist(),
		WindowSeconds:     48 * 60 * 60,
		Methods: []MethodConfig{
			{Code: "card", Weight: 1.0, MaxAttempts: 1, StayProbability: 0.5, SuccessRate: 0.0},
			{Code: "promo", Weight: 0.0, MaxAttempts: 3, StayProbability: 0.5, SuccessRate: 1.0},
		},
	}
	ids := map[string]int64{"card": 1, "promo": 2}

	for seed := int64(0); seed < 50; seed++ {
		sim := New(cfg, sampling.NewSource(seed), ids)
		order := entity.OrderInfo{OrderID: 1, OrderDate: testOrderDate, TotalCents: 100}
		traces, err := sim.SimulateOrder(order, false)
		require.NoError(t, err, "seed %d", seed)
		require.NotEmpty(t, traces)

		last := traces[len(traces)-1]
		assert.True(t, last.Success, "seed %d", seed)
		assert.Equal(t, "card", last.Method, "seed %d", seed)
		for _, tr := range traces {
			assert.NotEqual(t, "promo", tr.Method, "zero-weight method must never be drawn")
		}
	}
}

func TestSimulateOrderSkipCallback(t *testing.T) {
	cfg := Config{
		GlobalMaxAttempts: 4,
		AttemptCountDist:  sampling.Distribution[int]{{Key: 4, Weight: 1}},
		WindowSeconds:     48 * 60 * 60,
		Methods: []MethodConfig{
			{Code: "card", Weight: 0.5, MaxAttempts: 2, StayProbability: 0.5, SuccessRate: 0.0},
			{Code: "ghost", Weight: 0.5, MaxAttempts: 2, StayProbability: 0.5, SuccessRate: 0.0},
		},
	}
	ids := map[string]int64{"card": 1}

	skipped := 0
	for seed := int64(0); seed < 50; seed++ {
		sim := New(cfg, sampling.NewSource(seed), ids)
		sim.OnSkip(func(order entity.OrderInfo, code string) {
			assert.Equal(t, int64(1), order.OrderID)
			assert.Equal(t, "ghost", code)
			skipped++
		})
		order := entity.OrderInfo{OrderID: 1, OrderDate: testOrderDate, TotalCents: 100}
		traces, err := sim.SimulateOrder(order, false)
		require.NoError(t, err)
		for _, tr := range traces {
			assert.NotEqual(t, "ghost", tr.Method)
		}
	}
	// With equal weights the unmapped method is drawn in some of the runs.
	assert.Positive(t, skipped)
}

func TestSimulateOrderSkipsUnmappedMethod(t *testing.T) {
	cfg := Config{
		GlobalMaxAttempts: 4,
		AttemptCountDist:  sampling.Distribution[int]{{Key: 4, Weight: 1}},
		WindowSeconds:     48 * 60 * 60,
		Methods: []MethodConfig{
			{Code: "card", Weight: 0.5, MaxAttempts: 2, StayProbability: 0.5, SuccessRate: 0.0},
			{Code: "ghost", Weight: 0.5, MaxAttempts: 2, StayProbability: 0.5, SuccessRate: 0.0},
		},
	}
	ids := map[string]int64{"card": 1}

	for seed := int64(0); seed < 50; seed++ {
		sim := New(cfg, sampling.NewSource(seed), ids)
		order := entity.OrderInfo{OrderID: 1, OrderDate: testOrderDate, TotalCents: 100}
		traces, err := sim.SimulateOrder(order, false)
		require.NoError(t, err)

		for i, tr := range traces {
			assert.Equal(t, i+1, tr.AttemptNo, "attempt numbers stay contiguous")
			assert.NotEqual(t, "ghost", tr.Method, "unmapped method rows are never emitted")
		}
		require.NotEmpty(t, traces)
		assert.True(t, traces[len(traces)-1].Success)
	}
}

func TestAttemptTimesDistinctAndSorted(t *testing.T) {
	sim := New(fullConfig(), sampling.NewSource(5), fullMethodIDs())
	times := sim.attemptTimes(testOrderDate, 4)
	require.Len(t, times, 4)
	seen := map[time.Time]bool{}
	var prev time.Time
	for _, ts := range times {
		assert.False(t, seen[ts])
		seen[ts] = true
		assert.True(t, ts.After(prev))
		assert.True(t, ts.After(testOrderDate))
		assert.True(t, ts.Before(testOrderDate.Add(48*time.Hour)))
		prev = ts
	}
}

func TestAttemptTimesTinyWindow(t *testing.T) {
	cfg := fullConfig()
	cfg.WindowSeconds = 2
	sim := New(cfg, sampling.NewSource(5), fullMethodIDs())
	// window-2 clamps to 1 usable second, so at most one attempt fits
	times := sim.attemptTimes(testOrderDate, 4)
	require.Len(t, times, 1)
	assert.Equal(t, testOrderDate.Add(time.Second), times[0])
}
