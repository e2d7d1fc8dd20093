package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadchandra19/kairon/internal/app/api"
	app "github.com/muhammadchandra19/kairon/internal/app/engine"
	"github.com/muhammadchandra19/kairon/internal/usecase/exchange"
	"github.com/muhammadchandra19/kairon/pkg/config"
	"github.com/muhammadchandra19/kairon/pkg/grpclib/health"
	"github.com/muhammadchandra19/kairon/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"google.golang.org/grpc"
)

const (
	grpcServiceName     = "kairon.engine"
	healthCheckTimeout  = 2 * time.Second
	healthWatchInterval = 5 * time.Second
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)),
		logger.WithStaticFields(
			logger.NewField("service", cfg.App.Name),
			logger.NewField("environment", cfg.App.Environment),
		),
	)
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	hc := healthcheck.New(healthCheckTimeout)
	deps, err := connect(ctx, hc)
	if err != nil {
		log.Error(err, logger.NewField("action", "connect_dependencies"))
		return
	}
	defer deps.close(log)

	ex := exchange.NewExchange()
	hub := api.NewHub(cfg.Scale(), log)
	go hub.Run(ctx)

	reader, err := deps.orderReader(cfg, log)
	if err != nil {
		log.Error(err, logger.NewField("action", "create_order_reader"))
		return
	}
	writer := deps.orderWriter(cfg)
	defer func() { _ = writer.Close() }()

	publishers := deps.publishers(cfg, hub)

	engine := app.NewEngineWithOptions(ex, reader, publishers, log, app.OptionsFromConfig(cfg))
	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.NewField("action", "start_engine"))
		return
	}

	apiServer := api.NewServer(ex, writer, deps.tradeRepository(), hub, hc, log, api.Options{
		Scale:          cfg.Scale(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HTTPPort),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("HTTP server listening", logger.NewField("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, logger.NewField("action", "serve_http"))
			cancel()
		}
	}()

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer(grpcServiceName)
	healthServer.Register(grpcServer)
	go healthServer.Watch(ctx, healthWatchInterval, hc.Err)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.App.GRPCPort))
	if err != nil {
		log.Error(err, logger.NewField("action", "listen_grpc"))
		return
	}
	go func() {
		log.Info("gRPC health server listening", logger.NewField("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error(err, logger.NewField("action", "serve_grpc"))
		}
	}()

	log.Info("Matching engine started successfully",
		logger.NewField("symbols", cfg.Engine.Symbols),
		logger.NewField("transport", string(cfg.Engine.Transport)),
		logger.NewField("scale", cfg.Engine.PriceScale),
	)

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", logger.NewField("signal", sig.String()))
	case <-ctx.Done():
	}

	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "stop_http"))
	}
	grpcServer.GracefulStop()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "stop_engine"))
	}

	log.Info("Matching engine shutdown complete")
}
