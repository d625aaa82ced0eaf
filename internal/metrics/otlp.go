package metrics

import (
	"encoding/json"
	"sort"
	"time"
)

type Kind string

const (
	KindSum   Kind = "sum"
	KindGauge Kind = "gauge"
)

const (
	UnitCount   = "1"
	UnitPercent = "%"

	temporalityCumulative = "AGGREGATION_TEMPORALITY_CUMULATIVE"
)

// Point is one emitted value before it is encoded for the sink.
type Point struct {
	Name       string
	Unit       string
	Kind       Kind
	Value      float64
	Time       time.Time
	Attributes map[string]string
}

type exportRequest struct {
	ResourceMetrics []resourceMetrics `json:"resourceMetrics"`
}

type resourceMetrics struct {
	ScopeMetrics []scopeMetrics `json:"scopeMetrics"`
}

type scopeMetrics struct {
	Metrics []metricJSON `json:"metrics"`
}

type metricJSON struct {
	Name  string     `json:"name"`
	Unit  string     `json:"unit"`
	Sum   *sumJSON   `json:"sum,omitempty"`
	Gauge *gaugeJSON `json:"gauge,omitempty"`
}

type sumJSON struct {
	DataPoints             []dataPoint `json:"dataPoints"`
	AggregationTemporality string      `json:"aggregationTemporality"`
	IsMonotonic            bool        `json:"isMonotonic"`
}

type gaugeJSON struct {
	DataPoints []dataPoint `json:"dataPoints"`
}

type dataPoint struct {
	AsDouble     float64     `json:"asDouble"`
	TimeUnixNano int64       `json:"timeUnixNano"`
	Attributes   []attribute `json:"attributes"`
}

type attribute struct {
	Key   string         `json:"key"`
	Value attributeValue `json:"value"`
}

type attributeValue struct {
	StringValue string `json:"stringValue"`
}

// EncodePayload renders points as one OTLP/JSON export request.
func EncodePayload(points ...Point) ([]byte, error) {
	metrics := make([]metricJSON, 0, len(points))
	for _, p := range points {
		metrics = append(metrics, toMetricJSON(p))
	}
	req := exportRequest{
		ResourceMetrics: []resourceMetrics{{
			ScopeMetrics: []scopeMetrics{{Metrics: metrics}},
		}},
	}
	return json.Marshal(req)
}

func toMetricJSON(p Point) metricJSON {
	dp := []dataPoint{{
		AsDouble:     p.Value,
		TimeUnixNano: p.Time.UnixNano(),
		Attributes:   toAttributes(p.Attributes),
	}}
	m := metricJSON{Name: p.Name, Unit: p.Unit}
	if p.Kind == KindSum {
		m.Sum = &sumJSON{
			DataPoints:             dp,
			AggregationTemporality: temporalityCumulative,
			IsMonotonic:            true,
		}
	} else {
		m.Gauge = &gaugeJSON{DataPoints: dp}
	}
	return m
}

func toAttributes(attrs map[string]string) []attribute {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]attribute, 0, len(keys))
	for _, k := range keys {
		out = append(out, attribute{Key: k, Value: attributeValue{StringValue: attrs[k]}})
	}
	return out
}
