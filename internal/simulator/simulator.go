// Package simulator implements the payment-attempt lifecycle: for each order
// it synthesizes a chronologically ordered sequence of payment attempts,
// choosing methods, retrying or switching, and guaranteeing that every
// non-cancelled order terminates in exactly one successful payment.
package simulator

import (
	"sort"
	"time"

	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/pkg/sampling"
	"github.com/shopseed/shopseed/pkg/support/exception"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

const moduleName = "simulator"

// MethodConfig describes one payment method's behavior during simulation.
type MethodConfig struct {
	Code            string
	Weight          float64
	MaxAttempts     int
	StayProbability float64
	SuccessRate     float64
}

// Config carries the tunables of a simulation run. Methods is ordered; the
// order determines the iteration sequence of every weighted draw and must be
// stable for reproducibility.
type Config struct {
	GlobalMaxAttempts int
	AttemptCountDist  sampling.Distribution[int]
	WindowSeconds     int64
	Methods           []MethodConfig
}

// AttemptTrace is one synthesized payment attempt. AmountCents carries the
// full order total on success and zero on failure.
type AttemptTrace struct {
	AttemptNo   int
	Timestamp   time.Time
	Method      string
	AmountCents int64
	Success     bool
}

// Simulator drives the per-order attempt state machine. It is not safe for
// concurrent use: all draws consume the single shared random source in a
// fixed order.
type Simulator struct {
	cfg       Config
	src       *sampling.Source
	methodIDs map[string]int64
	onSkip    func(order entity.OrderInfo, methodCode string)
}

// New creates a Simulator. methodIDs maps configured method codes to their
// storage ids; configured methods missing from the map are simulated but
// their attempts are not emitted.
func New(cfg Config, src *sampling.Source, methodIDs map[string]int64) *Simulator {
	return &Simulator{cfg: cfg, src: src, methodIDs: methodIDs}
}

// OnSkip registers a callback invoked whenever a configured method without a
// storage id causes an attempt to be dropped.
func (s *Simulator) OnSkip(fn func(order entity.OrderInfo, methodCode string)) {
	s.onSkip = fn
}

// orderState is the mutable per-order record threaded through the attempt
// loop: per-method usage counters (parallel to cfg.Methods), the retained
// method, and the bookkeeping needed for forced resolution.
type orderState struct {
	counts      []int
	current     int
	lastAttempt time.Time
	attempted   bool
}

// cap returns the effective attempt ceiling for the method at index i.
func (s *Simulator) cap(i int) int {
	c := s.cfg.Methods[i].MaxAttempts
	if c > s.cfg.GlobalMaxAttempts {
		c = s.cfg.GlobalMaxAttempts
	}
	return c
}

// underCap returns the indices of positively weighted methods that have not
// yet reached their cap, in configuration order. Zero-weight methods are
// never switch candidates: a pool holding only them would make the weighted
// draw fail, so they count as exhausted.
func (s *Simulator) underCap(st *orderState) []int {
	var out []int
	for i := range s.cfg.Methods {
		if st.counts[i] < s.cap(i) && s.cfg.Methods[i].Weight > 0 {
			out = append(out, i)
		}
	}
	return out
}

// weightDist builds a weighted distribution over the given method indices,
// preserving configuration order.
func (s *Simulator) weightDist(indices []int) sampling.Distribution[int] {
	dist := make(sampling.Distribution[int], 0, len(indices))
	for _, i := range indices {
		dist = append(dist, sampling.Entry[int]{Key: i, Weight: s.cfg.Methods[i].Weight})
	}
	return dist
}

// drawPlannedAttempts samples the planned attempt count for one order, capped
// at the global maximum.
func (s *Simulator) drawPlannedAttempts() (int, error) {
	n, err := sampling.DrawKey(s.src, s.cfg.AttemptCountDist)
	if err != nil {
		return 0, err
	}
	if n > s.cfg.GlobalMaxAttempts {
		n = s.cfg.GlobalMaxAttempts
	}
	return n, nil
}

// attemptTimes draws n distinct second offsets in (0, window-2] and returns
// the resulting timestamps sorted ascending. Distinctness guarantees the
// attempts never collide.
func (s *Simulator) attemptTimes(base time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	maxSeconds := s.cfg.WindowSeconds - 2
	if maxSeconds < 1 {
		maxSeconds = 1
	}
	if int64(n) > maxSeconds {
		n = int(maxSeconds)
	}

	chosen := make(map[int64]struct{}, n)
	offsets := make([]int64, 0, n)
	for len(chosen) < n {
		off := 1 + s.src.Int63n(maxSeconds)
		if _, dup := chosen[off]; dup {
			continue
		}
		chosen[off] = struct{}{}
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	times := make([]time.Time, 0, n)
	for _, off := range offsets {
		times = append(times, base.Add(time.Duration(off)*time.Second))
	}
	return times
}

// pickNextMethod decides whether to retain the current method or switch.
// A method at its cap forces a switch without consuming a draw; otherwise
// retention is a single coin flip against the method's stay probability.
// When no alternative remains under cap, the current method is returned and
// the caller's cap check terminates the loop.
func (s *Simulator) pickNextMethod(st *orderState) (int, error) {
	stay := false
	if st.counts[st.current] < s.cap(st.current) {
		stay = s.src.Float64() <= s.cfg.Methods[st.current].StayProbability
	}
	if stay {
		return st.current, nil
	}

	available := s.underCap(st)
	available = removeIndex(available, st.current)
	if len(available) == 0 {
		return st.current, nil
	}
	return sampling.DrawKey(s.src, s.weightDist(available))
}

func removeIndex(indices []int, target int) []int {
	out := indices[:0]
	for _, i := range indices {
		if i != target {
			out = append(out, i)
		}
	}
	return out
}

// SimulateOrder runs the attempt state machine for one order. cancelled
// reports whether the order's final status is the distinguished cancelled
// value; only cancelled orders may end without a successful attempt.
func (s *Simulator) SimulateOrder(order entity.OrderInfo, cancelled bool) ([]AttemptTrace, error) {
	planned, err := s.drawPlannedAttempts()
	if err != nil {
		return nil, err
	}
	times := s.attemptTimes(order.OrderDate, planned)

	initial, err := sampling.DrawKey(s.src, s.weightDist(allIndices(len(s.cfg.Methods))))
	if err != nil {
		return nil, err
	}

	st := &orderState{
		counts:  make([]int, len(s.cfg.Methods)),
		current: initial,
	}

	var traces []AttemptTrace
	paid := false

	for attempt, ts := range times {
		if paid {
			break
		}

		method := st.current
		if attempt > 0 {
			method, err = s.pickNextMethod(st)
			if err != nil {
				return nil, err
			}
			st.current = method
		}

		// The retained pick can still be at cap when no alternative existed;
		// re-pick among under-cap methods or stop.
		if st.counts[method] >= s.cap(method) {
			available := s.underCap(st)
			available = removeIndex(available, method)
			if len(available) == 0 {
				break
			}
			method, err = sampling.DrawKey(s.src, s.weightDist(available))
			if err != nil {
				return nil, err
			}
			st.current = method
		}

		st.counts[method]++
		st.lastAttempt = ts
		st.attempted = true

		success := s.src.Float64() < s.cfg.Methods[method].SuccessRate
		if cancelled {
			// Cancelled orders never pay. The draw is still consumed so the
			// random stream stays aligned with the non-cancelled path.
			success = false
		}

		code := s.cfg.Methods[method].Code
		if _, ok := s.methodIDs[code]; !ok {
			// Configured method without a storage id: the slot and the draws
			// are consumed but no row is emitted.
			skipErr := exception.NewMissingMethodMapping(moduleName, code)
			logger.Warnf("Skipping attempt for order %d: %s.", order.OrderID, exception.ExtractErrorMessage(skipErr))
			if s.onSkip != nil {
				s.onSkip(order, code)
			}
			continue
		}

		amount := int64(0)
		if success {
			amount = order.TotalCents
			paid = true
		}
		traces = append(traces, AttemptTrace{
			AttemptNo:   len(traces) + 1,
			Timestamp:   ts,
			Method:      code,
			AmountCents: amount,
			Success:     success,
		})
	}

	if !paid && !cancelled {
		traces = append(traces, s.forcedResolution(order, st, len(traces)+1))
	}
	return traces, nil
}

// forcedResolution synthesizes the terminal successful attempt for a
// non-cancelled order that did not pay naturally: one second after the last
// attempted timestamp (or after the order timestamp when nothing was
// attempted), using the last method if it has a storage id, otherwise the
// first configured method that does.
func (s *Simulator) forcedResolution(order entity.OrderInfo, st *orderState, attemptNo int) AttemptTrace {
	base := order.OrderDate
	if st.attempted {
		base = st.lastAttempt
	}

	code := s.cfg.Methods[st.current].Code
	if _, ok := s.methodIDs[code]; !ok {
		for _, m := range s.cfg.Methods {
			if _, ok := s.methodIDs[m.Code]; ok {
				code = m.Code
				break
			}
		}
	}

	return AttemptTrace{
		AttemptNo:   attemptNo,
		Timestamp:   base.Add(time.Second),
		Method:      code,
		AmountCents: order.TotalCents,
		Success:     true,
	}
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
