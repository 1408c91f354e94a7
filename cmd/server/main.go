package main

import (
	"golang.org/x/sync/errgroup"

	"tk905-svr/internal/api"
	"tk905-svr/internal/config"
	"tk905-svr/internal/forward"
	"tk905-svr/internal/journal"
	"tk905-svr/internal/observability"
	"tk905-svr/internal/pipeline"
	"tk905-svr/internal/server"
	"tk905-svr/internal/store"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	logger.Info("starting tk905-svr",
		"tcp_port", cfg.TCPPort,
		"http_port", cfg.HTTPPort,
		"forward_enabled", cfg.ForwardEnabled,
	)

	if cfg.RedisAddr != "" {
		if err := store.InitRedis(cfg.RedisAddr, 0, logger); err != nil {
			logger.Error("redis init failed", "err", err)
			return
		}
	}

	jw, err := journal.New(cfg.LogFile, cfg.JournalQueueSize, logger)
	if err != nil {
		logger.Error("journal init failed", "err", err)
		return
	}
	defer jw.Close()

	st := store.NewDeviceStore()

	var relay pipeline.Relay
	if cfg.ForwardEnabled && cfg.ForwardURL != "" {
		fw := forward.New(cfg.ForwardURL, cfg.ForwardTimeout, cfg.ForwardQueueSize, cfg.ForwardWorkers, logger)
		defer fw.Close()
		relay = fw
	}

	proc := pipeline.NewProcessor(cfg, st, jw, relay, logger)
	tcpServer := server.New(proc, cfg.MaxConnBuffer, logger)
	apiServer := api.NewServer(":"+cfg.HTTPPort, st, logger)

	var g errgroup.Group
	g.Go(func() error { return tcpServer.Start(":" + cfg.TCPPort) })
	g.Go(func() error { return apiServer.Start() })
	g.Go(func() error {
		observability.StartMetricsServer(cfg.MetricsPort)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", "err", err)
	}
}
