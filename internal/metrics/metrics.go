package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgov", Name: "requests_total", Help: "Handled API requests",
	}, []string{"op"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sgov", Name: "handler_errors_total", Help: "Handler errors",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sgov", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
	NotifyEmits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgov", Name: "notify_emits_total", Help: "Notification emit outcomes",
	}, []string{"outcome"})
	QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sgov", Name: "notify_queue_depth", Help: "Outbound notification queue depth",
	})
)

func init() {
	prometheus.MustRegister(Requests, HandlerErrors, DBPing, NotifyEmits, QueueDepth)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func NotifyEmitted() { NotifyEmits.WithLabelValues("ok").Inc() }

func NotifyEmitFailed() { NotifyEmits.WithLabelValues("error").Inc() }

func NotifyEmitDropped() { NotifyEmits.WithLabelValues("dropped").Inc() }
