package pipeline

import (
	"log/slog"
	"time"

	"tk905-svr/internal/codec"
	"tk905-svr/internal/config"
	"tk905-svr/internal/observability"
	"tk905-svr/internal/store"
)

// Journal is the append-only position sink.
type Journal interface {
	Append(*codec.Position)
}

// Relay hands accepted positions to the forwarding workers.
type Relay interface {
	Enqueue(*codec.Position)
}

// Processor routes one decoded frame at a time: usable position -> store,
// journal, optional relay and Redis mirror; anything else -> lastEvent
// merge. It is called from each connection's read loop, so per-connection
// ordering is the caller's loop ordering.
type Processor struct {
	store     *store.DeviceStore
	journal   Journal
	relay     Relay
	enabled   bool
	onlyValid bool
	allowZero bool
	logger    *slog.Logger
}

func NewProcessor(cfg config.Config, st *store.DeviceStore, jw Journal, relay Relay, logger *slog.Logger) *Processor {
	return &Processor{
		store:     st,
		journal:   jw,
		relay:     relay,
		enabled:   cfg.ForwardEnabled,
		onlyValid: cfg.ForwardOnlyValid,
		allowZero: cfg.ForwardAllowZero,
		logger:    logger.With("component", "pipeline"),
	}
}

// HandleFrame decodes and routes a single complete frame. Malformed frames
// are dropped without disturbing the connection or sibling frames.
func (pr *Processor) HandleFrame(frame []byte) {
	start := time.Now()
	defer observability.ObserveDecodeLatency(start)
	observability.FramesExtracted.Inc()

	rec, err := codec.Decode(frame, time.Now().UTC())
	if err != nil {
		observability.ParseErrors.Inc()
		pr.logger.Debug("dropping malformed frame", "err", err)
		return
	}

	if rec.Event != nil {
		observability.RecordsDecoded.WithLabelValues("event").Inc()
		pr.store.Merge(rec.Event)
		return
	}

	p := rec.Position
	observability.RecordsDecoded.WithLabelValues("position").Inc()

	if !UsableCoords(p, pr.allowZero) {
		observability.PositionsRejected.Inc()
		pr.store.Merge(eventFromPosition(p))
		return
	}

	pr.store.Put(p)
	observability.PositionsStored.Inc()
	if pr.journal != nil {
		pr.journal.Append(p)
	}
	store.SavePositionSafe(p)
	if pr.relay != nil && ShouldForward(p, pr.enabled, pr.onlyValid) {
		pr.relay.Enqueue(p)
	}
}

// A position without usable coordinates still updates the device's
// lastEvent; its raw payload keeps the rejected fields auditable.
func eventFromPosition(p *codec.Position) *codec.Event {
	return &codec.Event{
		DeviceID:   p.DeviceID,
		Vendor:     p.Vendor,
		Cmd:        p.Cmd,
		Raw:        p.Raw,
		ReceivedAt: p.ReceivedAt,
	}
}
