package main

import (
	"context"
	"flag"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"allocation-backend/internal/app"
	"allocation-backend/internal/config"
	"allocation-backend/internal/handlers"
	"allocation-backend/internal/router"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	config.AppConfig = cfg

	setupLogging(cfg.Logging)

	container, err := app.NewContainer(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize services")
	}
	defer container.Close()

	resolveHandler := handlers.NewResolveHandler(container.Engine, container.Publisher)
	relayHandler := handlers.NewRelayHandler(cfg.Relay.UpstreamBaseURL, cfg.Relay.UpstreamTimeout())

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.Setup(cfg, resolveHandler, relayHandler)

	logrus.WithFields(logrus.Fields{
		"addr":              cfg.Server.Addr(),
		"sale_contract":     cfg.Chain.SaleContract,
		"direct_state_read": cfg.Chain.DirectStateRead,
	}).Info("🚀 allocation-backend starting")

	if err := r.Run(cfg.Server.Addr()); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetOutput(os.Stdout)
}
