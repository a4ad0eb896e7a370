package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AttendanceInserted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "attendance_records_inserted_total", Help: "Attendance records written",
	})
	ReportsServed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "reports_served_total", Help: "Aggregated attendance reports served",
	})
	ReportCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "report_cache_hits_total", Help: "Reports served from the Redis cache",
	})
	ExportsServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "exports_served_total", Help: "Report exports by format",
	}, []string{"format"})
	RosterCopies = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "roster_copies_total", Help: "Roster copy operations completed",
	})
	HandlerErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "handler_errors_total", Help: "Handler errors by kind",
	}, []string{"kind"})
	WorkerEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "worker_events_total", Help: "Events consumed by the worker",
	}, []string{"type"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "classtrack", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		AttendanceInserted, ReportsServed, ReportCacheHits, ExportsServed,
		RosterCopies, HandlerErrors, WorkerEvents, DBPing,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
