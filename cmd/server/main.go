package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maneuver-server/internal/config"
	"maneuver-server/internal/infrastructure/storage"
	"maneuver-server/internal/server"
	"maneuver-server/internal/version"
	"maneuver-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var configPath, port string
	var seed int64
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&port, "port", "", "Listen port (overrides config and MG_PORT)")
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Master seed for scene generation (0 for random)")
	flag.Parse()

	logger.Log.Info("Starting Maneuver scene server...")
	logger.Log.Info(version.Current().String())

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.Fatal("Invalid config: ", err)
	}
	if port != "" {
		cfg.Port = port
	}
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
	} else if cfg.Seed == 0 {
		cfg.Seed = cfg.ResolveSeed()
		logger.Log.Infof("🎲 Using random Master Seed: %d", cfg.Seed)
	}

	// 2. Хранилище
	store, err := storage.Open(cfg.Storage.Driver, cfg.DataDir, cfg.Storage.DSN)
	if err != nil {
		logger.Log.Fatal("Storage init error: ", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"driver":   cfg.Storage.Driver,
		"data_dir": cfg.DataDir,
	}).Info("Storage ready")

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(store, server.Options{
		Port:            cfg.Port,
		Seed:            cfg.Seed,
		AttemptsPerCell: cfg.Placement.MaxAttemptsPerCell,
		MaxDimension:    cfg.Placement.MaxDimension,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown incomplete")
	}
	if err := store.Close(); err != nil {
		logger.Log.WithError(err).Warn("Storage close failed")
	}

	logger.Log.Info("Done.")
}
