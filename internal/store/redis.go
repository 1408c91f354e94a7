package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"tk905-svr/internal/codec"
	"tk905-svr/internal/observability"
)

// Optional Redis mirror of the latest usable position per device, for
// consumers outside this process. Disabled until InitRedis succeeds; all
// writes are best-effort and never surface to the ingest pipeline.

var ctx = context.Background()

var (
	rdb  *redis.Client
	rlog *slog.Logger
)

const (
	mirrorPrefix = "device:"
	mirrorTTL    = 10 * time.Minute
)

func InitRedis(addr string, db int, logger *slog.Logger) error {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	rdb = client
	rlog = logger.With("component", "redis")
	rlog.Info("redis mirror connected", "addr", addr)
	return nil
}

// SavePositionSafe mirrors the position under device:<id>. A nil client
// (mirror not configured) and any write error are both silent no-ops apart
// from the log line and error counter.
func SavePositionSafe(p *codec.Position) {
	if rdb == nil {
		return
	}
	b, err := json.Marshal(p)
	if err != nil {
		rlog.Error("marshal position", "device", p.DeviceID, "err", err)
		return
	}
	if err := rdb.Set(ctx, mirrorPrefix+p.DeviceID, b, mirrorTTL).Err(); err != nil {
		observability.RedisMirrorErrors.Inc()
		rlog.Error("redis SET failed", "device", p.DeviceID, "err", err)
	}
}
