package forward

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"tk905-svr/internal/codec"
	"tk905-svr/internal/observability"
)

const userAgent = "tk905-forwarder/1.0"

// km/h to knots
const knotsPerKph = 0.539956803

// Forwarder relays accepted positions to the remote tracking backend as
// best-effort HTTP GETs. Enqueue never blocks: positions go into a bounded
// queue drained by a fixed worker pool, and a full queue drops the record
// with a log line. Each delivery runs under its own wall-clock timeout;
// timeouts, network errors, and non-2xx responses are logged and swallowed,
// never retried.
type Forwarder struct {
	backendURL string
	timeout    time.Duration
	client     *http.Client
	queue      chan *codec.Position
	wg         sync.WaitGroup
	logger     *slog.Logger
}

func New(backendURL string, timeout time.Duration, queueSize, workers int, logger *slog.Logger) *Forwarder {
	f := &Forwarder{
		backendURL: backendURL,
		timeout:    timeout,
		client:     &http.Client{},
		queue:      make(chan *codec.Position, queueSize),
		logger:     logger.With("component", "forward"),
	}
	for i := 0; i < workers; i++ {
		f.wg.Add(1)
		go f.worker()
	}
	return f
}

// Enqueue hands off the position and returns immediately.
func (f *Forwarder) Enqueue(p *codec.Position) {
	select {
	case f.queue <- p:
		observability.ForwardAttempts.Inc()
	default:
		observability.ForwardDropped.Inc()
		f.logger.Warn("forward queue full, dropping position", "device", p.DeviceID)
	}
}

// Close drains the queue and waits for in-flight deliveries.
func (f *Forwarder) Close() {
	close(f.queue)
	f.wg.Wait()
}

func (f *Forwarder) worker() {
	defer f.wg.Done()
	for p := range f.queue {
		f.deliver(p)
	}
}

func (f *Forwarder) deliver(p *codec.Position) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.backendURL, nil)
	if err != nil {
		observability.ForwardErrors.Inc()
		f.logger.Error("bad backend URL", "url", f.backendURL, "err", err)
		return
	}
	req.URL.RawQuery = buildQuery(p).Encode()
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		observability.ForwardErrors.Inc()
		f.logger.Warn("forward failed", "device", p.DeviceID, "err", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.ForwardErrors.Inc()
		f.logger.Warn("forward rejected", "device", p.DeviceID, "status", resp.StatusCode)
	}
}

func buildQuery(p *codec.Position) url.Values {
	q := url.Values{}
	q.Set("id", p.DeviceID)
	if p.Lat != nil {
		q.Set("lat", strconv.FormatFloat(*p.Lat, 'f', -1, 64))
	}
	if p.Lon != nil {
		q.Set("lon", strconv.FormatFloat(*p.Lon, 'f', -1, 64))
	}
	if p.Time != nil {
		q.Set("timestamp", p.Time.UTC().Format(time.RFC3339))
	}
	q.Set("valid", strconv.FormatBool(p.Valid))
	if p.SpeedKph != nil {
		q.Set("speed", fmt.Sprintf("%.2f", *p.SpeedKph*knotsPerKph))
	}
	if p.Course != nil {
		q.Set("bearing", strconv.FormatFloat(*p.Course, 'f', -1, 64))
	}
	return q
}
