package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultInterval = 10 * time.Second

type ExporterConfig struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	// Batch sends all metrics of a tick in one request instead of one per metric.
	Batch bool
	// Source, when set, is attached to every data point as the "source" attribute.
	Source string
}

// Exporter flushes an Aggregator to a Sink on a fixed interval. Sends are
// fire-and-forget: failures are logged and counted, never retried.
type Exporter struct {
	agg  *Aggregator
	sink Sink
	host HostSampler
	cfg  ExporterConfig

	mu       sync.Mutex
	started  bool
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	inflight sync.WaitGroup
}

// NewExporter builds an exporter. A nil sink discards payloads, which keeps
// the per-tick resets running when export is disabled.
func NewExporter(agg *Aggregator, sink Sink, host HostSampler, cfg ExporterConfig) *Exporter {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if host == nil {
		host = NewHostSampler()
	}
	return &Exporter{
		agg:  agg,
		sink: sink,
		host: host,
		cfg:  cfg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start launches the tick loop. It returns immediately; the loop ends when
// ctx is done or Stop is called. Calling Start twice is a no-op.
func (e *Exporter) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.mu.Unlock()

	ticker := time.NewTicker(e.cfg.Interval)
	go func() {
		defer close(e.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-e.stop:
				return
			case now := <-ticker.C:
				e.tick(now)
			}
		}
	}()
	log.Info().
		Dur("interval", e.cfg.Interval).
		Bool("batch", e.cfg.Batch).
		Bool("sink", e.sink != nil).
		Msg("metrics exporter started")
}

// Stop prevents future ticks and waits for the loop to exit. Sends already in
// flight are left to finish on their own.
func (e *Exporter) Stop() {
	e.stopOnce.Do(func() {
		close(e.stop)
	})
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.done
	}
}

// Wait blocks until every send started so far has returned.
func (e *Exporter) Wait() {
	e.inflight.Wait()
}

func (e *Exporter) tick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			metricExportPanicTotal.Add(1)
			log.Error().Interface("panic", r).Msg("metrics tick panicked")
		}
	}()
	metricExportTicksTotal.Add(1)
	metricExportLastTickUnix.Set(now.Unix())

	points := e.Collect(now)
	if e.sink == nil {
		return
	}
	if e.cfg.Batch {
		e.dispatch("batch", points...)
		return
	}
	for _, p := range points {
		e.dispatch(p.Name, p)
	}
}

// Collect flushes the aggregator and returns the points of one tick in emit order.
func (e *Exporter) Collect(now time.Time) []Point {
	snap := e.agg.Flush(now)
	methods := snap.Methods()
	points := make([]Point, 0, len(methods)+11)

	for _, m := range methods {
		points = append(points, e.point("requests_"+m, KindSum, UnitCount, float64(snap.Requests[m]), now, "method", m))
	}
	points = append(points,
		e.point("requests_total", KindSum, UnitCount, float64(snap.RequestsTotal), now),
		e.point("service_latency", KindGauge, UnitCount, millis(snap.ServiceLatency), now),
		e.point("pizza_latency", KindGauge, UnitCount, millis(snap.PizzaLatency), now),
		e.point("pizza_success", KindSum, UnitCount, float64(snap.Purchases), now),
		e.point("pizza_failure", KindSum, UnitCount, float64(snap.OrderFailures), now),
		e.point("pizza_revenue", KindSum, UnitCount, snap.Revenue, now),
		e.point("auth_success", KindSum, UnitCount, float64(snap.AuthSuccess), now),
		e.point("auth_fail", KindSum, UnitCount, float64(snap.AuthFailure), now),
		e.point("cpu", KindGauge, UnitPercent, e.host.CPUPercent(), now),
		e.point("memory", KindGauge, UnitPercent, e.host.MemoryPercent(), now),
		e.point("active_users", KindSum, UnitCount, float64(snap.ActiveUsers), now),
	)
	return points
}

func (e *Exporter) point(name string, kind Kind, unit string, v float64, now time.Time, kv ...string) Point {
	var attrs map[string]string
	if len(kv) > 0 || e.cfg.Source != "" {
		attrs = make(map[string]string, len(kv)/2+1)
		if e.cfg.Source != "" {
			attrs["source"] = e.cfg.Source
		}
		for i := 0; i+1 < len(kv); i += 2 {
			attrs[kv[i]] = kv[i+1]
		}
	}
	return Point{Name: name, Unit: unit, Kind: kind, Value: v, Time: now, Attributes: attrs}
}

func (e *Exporter) dispatch(label string, points ...Point) {
	payload, err := EncodePayload(points...)
	if err != nil {
		metricExportFailedTotal.Add(1)
		log.Error().Err(err).Str("metric", label).Msg("encode metrics payload failed")
		return
	}
	e.inflight.Add(1)
	metricExportInflight.Add(1)
	go e.send(label, payload)
}

func (e *Exporter) send(label string, payload []byte) {
	defer e.inflight.Done()
	defer metricExportInflight.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			metricExportPanicTotal.Add(1)
			log.Error().Str("metric", label).Str("panic", fmt.Sprint(r)).Msg("metrics send panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.RequestTimeout)
	defer cancel()
	if err := e.sink.Send(ctx, payload); err != nil {
		metricExportFailedTotal.Add(1)
		log.Warn().Err(err).Str("metric", label).Msg("push metrics failed")
		return
	}
	metricExportSentTotal.Add(1)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
