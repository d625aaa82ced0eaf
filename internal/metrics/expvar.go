package metrics

import "expvar"

var (
	metricExportTicksTotal   = expvar.NewInt("metrics_export_ticks_total")
	metricExportSentTotal    = expvar.NewInt("metrics_export_sent_total")
	metricExportFailedTotal  = expvar.NewInt("metrics_export_failed_total")
	metricExportPanicTotal   = expvar.NewInt("metrics_export_panic_total")
	metricExportInflight     = expvar.NewInt("metrics_export_inflight")
	metricExportLastTickUnix = expvar.NewInt("metrics_export_last_tick_unix")
)
