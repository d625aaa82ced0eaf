// Package metrics aggregates request, auth, order and active-user signals in
// process and periodically pushes them to an OTLP/JSON sink.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// DefaultInactiveAfter is how long a user stays active without a request.
const DefaultInactiveAfter = 100 * time.Second

type LatencyTarget int

const (
	ServiceLatency LatencyTarget = iota
	PizzaLatency
)

func (t LatencyTarget) String() string {
	switch t {
	case ServiceLatency:
		return "service_latency"
	case PizzaLatency:
		return "pizza_latency"
	default:
		return "unknown_latency"
	}
}

// LatencyMarker is returned by StartLatencyTimer and consumed by StopLatencyTimer.
type LatencyMarker struct {
	start time.Time
}

// Order is the view of an order the aggregator needs to compute revenue.
type Order interface {
	ItemPrices() []float64
}

// Snapshot is a point-in-time copy of the aggregated state.
type Snapshot struct {
	Requests      map[string]int64
	RequestsTotal int64

	ServiceLatency time.Duration
	PizzaLatency   time.Duration

	Purchases     int64
	OrderFailures int64
	Revenue       float64

	AuthSuccess int64
	AuthFailure int64

	ActiveUsers int
}

// Methods returns the request methods in the snapshot in a stable order.
func (s Snapshot) Methods() []string {
	out := make([]string, 0, len(s.Requests))
	for m := range s.Requests {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

type Option func(*Aggregator)

// WithClock replaces time.Now for active-user bookkeeping and latency timers.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

func WithInactiveAfter(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.inactiveAfter = d
		}
	}
}

// WithCumulativeRequests keeps per-method request counts across flushes
// instead of resetting them every tick.
func WithCumulativeRequests(enabled bool) Option {
	return func(a *Aggregator) {
		a.cumulativeRequests = enabled
	}
}

// Aggregator owns all metric state. The zero value is not usable; use
// NewAggregator. A nil *Aggregator ignores every hook.
type Aggregator struct {
	now                func() time.Time
	inactiveAfter      time.Duration
	cumulativeRequests bool

	mu       sync.Mutex
	requests map[string]int64

	authSuccess int64
	authFailure int64

	purchases     int64
	orderFailures int64
	revenue       float64

	activeUsers map[string]time.Time

	serviceLatency time.Duration
	pizzaLatency   time.Duration
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		now:           time.Now,
		inactiveAfter: DefaultInactiveAfter,
		requests:      map[string]int64{},
		activeUsers:   map[string]time.Time{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) RecordRequest(method string) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.requests[method]++
	a.mu.Unlock()
}

func (a *Aggregator) RecordAuthAttempt(success bool) {
	if a == nil {
		return
	}
	a.mu.Lock()
	if success {
		a.authSuccess++
	} else {
		a.authFailure++
	}
	a.mu.Unlock()
}

// RecordOrder counts a fulfilled (success) or rejected order. Prices are
// trusted as given.
func (a *Aggregator) RecordOrder(order Order, success bool) {
	if a == nil {
		return
	}
	if !success {
		a.mu.Lock()
		a.orderFailures++
		a.mu.Unlock()
		return
	}
	var sum float64
	if order != nil {
		for _, p := range order.ItemPrices() {
			sum += p
		}
	}
	a.mu.Lock()
	a.purchases++
	a.revenue += sum
	a.mu.Unlock()
}

func (a *Aggregator) TouchActiveUser(userID string) {
	if a == nil || userID == "" {
		return
	}
	now := a.now()
	a.mu.Lock()
	a.activeUsers[userID] = now
	a.mu.Unlock()
}

func (a *Aggregator) StartLatencyTimer() LatencyMarker {
	if a == nil {
		return LatencyMarker{start: time.Now()}
	}
	return LatencyMarker{start: a.now()}
}

// StopLatencyTimer overwrites the target gauge with the time elapsed since marker.
func (a *Aggregator) StopLatencyTimer(marker LatencyMarker, target LatencyTarget) {
	if a == nil || marker.start.IsZero() {
		return
	}
	elapsed := a.now().Sub(marker.start)
	if elapsed < 0 {
		elapsed = 0
	}
	a.mu.Lock()
	switch target {
	case PizzaLatency:
		a.pizzaLatency = elapsed
	default:
		a.serviceLatency = elapsed
	}
	a.mu.Unlock()
}

// PurgeInactive drops users last seen more than the inactivity threshold
// before now and reports how many were removed.
func (a *Aggregator) PurgeInactive(now time.Time) int {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.purgeLocked(now)
}

func (a *Aggregator) purgeLocked(now time.Time) int {
	removed := 0
	for id, seen := range a.activeUsers {
		if now.Sub(seen) > a.inactiveAfter {
			delete(a.activeUsers, id)
			removed++
		}
	}
	return removed
}

// Peek returns the current state without resetting anything.
func (a *Aggregator) Peek() Snapshot {
	if a == nil {
		return Snapshot{Requests: map[string]int64{}}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Flush snapshots the state and applies the per-tick resets in one critical
// section: latency gauges go to zero, inactive users are purged after being
// counted, and request counts drop to zero unless cumulative requests are on.
// Methods already seen stay in the map so idle ticks report 0 for them.
// Auth and order counters are lifetime totals and are left untouched.
func (a *Aggregator) Flush(now time.Time) Snapshot {
	if a == nil {
		return Snapshot{Requests: map[string]int64{}}
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := a.snapshotLocked()
	a.serviceLatency = 0
	a.pizzaLatency = 0
	a.purgeLocked(now)
	if !a.cumulativeRequests {
		for m := range a.requests {
			a.requests[m] = 0
		}
	}
	return snap
}

func (a *Aggregator) snapshotLocked() Snapshot {
	reqs := make(map[string]int64, len(a.requests))
	var total int64
	for m, n := range a.requests {
		reqs[m] = n
		total += n
	}
	return Snapshot{
		Requests:       reqs,
		RequestsTotal:  total,
		ServiceLatency: a.serviceLatency,
		PizzaLatency:   a.pizzaLatency,
		Purchases:      a.purchases,
		OrderFailures:  a.orderFailures,
		Revenue:        a.revenue,
		AuthSuccess:    a.authSuccess,
		AuthFailure:    a.authFailure,
		ActiveUsers:    len(a.activeUsers),
	}
}
