package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/DimK19/vibettp/config"
	"github.com/DimK19/vibettp/httpserver"
	"github.com/DimK19/vibettp/telemetry"
)

const name = "vibettp"

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	configPath := flag.String("config", "config.yaml", "path to the server configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		_ = shutdownTelemetry(context.Background())
	}()

	logger := otelslog.NewLogger(name)

	router := httpserver.NewRouter(cfg.RootDirectory)
	router.GET("/", func(req *httpserver.Request) *httpserver.Response {
		return httpserver.NewResponse(httpserver.StatusOK).WithHTML("<h1>Welcome home!</h1>")
	})
	router.GET("/about", func(req *httpserver.Request) *httpserver.Response {
		return httpserver.NewResponse(httpserver.StatusOK).WithHTML("<h1>About us</h1>")
	})

	server := httpserver.NewServer(name, router, httpserver.Options{
		MaxClients: cfg.MaxClients,
		Timeout:    cfg.Timeout(),
		KeepAlive:  cfg.KeepAlive,
	}, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe(ctx, cfg.Address())
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
