package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TCPConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_tcp_connections_total",
		Help: "TCP connections accepted",
	})
	FramesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_frames_extracted_total",
		Help: "Complete bracket frames pulled from connection buffers",
	})
	RecordsDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tk905_records_decoded_total",
		Help: "Frames decoded into records, by kind",
	}, []string{"kind"})
	ParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_parse_errors_total",
		Help: "Frames dropped as structurally malformed",
	})
	PositionsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_positions_stored_total",
		Help: "Usable positions written to the device state store",
	})
	PositionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_positions_rejected_total",
		Help: "Positions without usable coordinates, merged as lastEvent",
	})
	BufferOverflows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_buffer_overflows_total",
		Help: "Connections closed because the residual buffer exceeded the cap",
	})
	JournalErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_journal_errors_total",
		Help: "Failed appends to the position journal",
	})
	JournalDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_journal_dropped_total",
		Help: "Positions dropped because the journal queue was full",
	})
	ForwardAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_forward_attempts_total",
		Help: "Positions handed to the forwarder workers",
	})
	ForwardErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_forward_errors_total",
		Help: "Forward deliveries that timed out, failed, or got a non-2xx",
	})
	ForwardDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_forward_dropped_total",
		Help: "Positions dropped because the forward queue was full",
	})
	RedisMirrorErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tk905_redis_mirror_errors_total",
		Help: "Failed writes to the Redis state mirror",
	})
	DecodeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tk905_decode_latency_seconds",
		Help:    "Per-frame decode and routing latency",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveDecodeLatency(start time.Time) {
	DecodeLatency.Observe(time.Since(start).Seconds())
}

func StartMetricsServer(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	_ = http.ListenAndServe(":"+port, mux)
}
