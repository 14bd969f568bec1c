package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shopping-agent/internal/adapter/httpapi"
	"shopping-agent/internal/di"
	"shopping-agent/internal/infrastructure/config"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	addr := pflag.String("addr", "", "listen address, overrides HTTP_ADDR")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if *addr != "" {
		cfg.HTTP.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg, di.Options{LogName: "server"})
	if err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}
	defer container.Close()

	access := httpapi.NewAccessLog(cfg.Log.Level)
	serverCfg := httpapi.DefaultConfig(cfg.HTTP.Addr)
	serverCfg.AccessLog = &access

	server := httpapi.NewServer(serverCfg, container.Agent, container.Logger)
	if err := server.ListenAndServe(ctx); err != nil {
		container.Logger.Error("HTTP server stopped", "error", err)
	}
}
