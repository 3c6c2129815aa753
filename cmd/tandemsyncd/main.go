// Command tandemsyncd runs the tandem crane synchronization orchestrator
// as a standalone process: it dials both cranes' motor controllers over
// WebSocket, wraps each behind a circuit breaker, optionally serves
// Prometheus metrics, and shuts everything down cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nmxmxh/tandemsync/config"
	"github.com/nmxmxh/tandemsync/lifecycle"
	"github.com/nmxmxh/tandemsync/metrics"
	prometheussink "github.com/nmxmxh/tandemsync/metrics/prometheus"
	"github.com/nmxmxh/tandemsync/motor"
	"github.com/nmxmxh/tandemsync/obslog"
	"github.com/nmxmxh/tandemsync/tandemsync"
	"github.com/nmxmxh/tandemsync/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		craneAURL   = flag.String("crane-a-url", "ws://127.0.0.1:9001/motor", "WebSocket URL for crane A's motor controller")
		craneBURL   = flag.String("crane-b-url", "ws://127.0.0.1:9002/motor", "WebSocket URL for crane B's motor controller")
		metricsAddr = flag.String("metrics-addr", ":9100", "address to serve Prometheus metrics on, empty to disable")
		logLevel    = flag.Int("log-level", int(obslog.Info), "minimum log level: 0=debug 1=info 2=warn 3=error")
	)
	flag.Parse()

	log := obslog.New(obslog.Config{Level: obslog.Level(*logLevel), Component: "tandemsyncd"})

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", obslog.Err(err))
		os.Exit(1)
	}

	shutdown := lifecycle.New(2*time.Second, log)

	var sink metrics.Sink = metrics.NoopSink{}
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		sink = prometheussink.New(reg)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: *metricsAddr, Handler: mux}

		go func() {
			log.Info("metrics server listening", obslog.String("addr", *metricsAddr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", obslog.Err(err))
			}
		}()
		shutdown.Register(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		})
	}

	portA, err := dialMotorPort(telemetry.CraneA, *craneAURL, log)
	if err != nil {
		log.Error("failed to dial crane A motor controller", obslog.Err(err))
		os.Exit(1)
	}
	shutdown.Register(portA.Close)

	portB, err := dialMotorPort(telemetry.CraneB, *craneBURL, log)
	if err != nil {
		log.Error("failed to dial crane B motor controller", obslog.Err(err))
		os.Exit(1)
	}
	shutdown.Register(portB.Close)

	breakerA := motor.NewBreakerPort(portA, 3, 5*time.Second, log)
	breakerB := motor.NewBreakerPort(portB, 3, 5*time.Second, log)

	svc := tandemsync.New(cfg, breakerA, breakerB, log, sink)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc.Start(ctx)
	shutdown.Register(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ProcessingWindow*10)
		defer cancel()
		return svc.Shutdown(ctx)
	})

	log.Info("tandemsyncd started")
	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown completed with errors", obslog.Err(err))
		os.Exit(1)
	}
	log.Info("tandemsyncd stopped cleanly")
}

func dialMotorPort(craneID telemetry.CraneID, url string, log *obslog.Logger) (*motor.WebSocketPort, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	log.Info("dialed motor controller", obslog.String("crane", craneID.String()), obslog.String("url", url))
	return motor.NewWebSocketPort(craneID, conn, 2*time.Second), nil
}
