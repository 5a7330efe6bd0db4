// Package main - Entry point for the shopquote API server
package main

import (
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"shopquote/api"
	"shopquote/core/capacity"
	"shopquote/core/catalog"
	"shopquote/core/pricing"
	"shopquote/db"
	"shopquote/internal/config"
	"shopquote/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logging.Logger.Fatal("load config", zap.Error(err))
		}
		config.Set(loaded)
		cfg = loaded
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Logger.Fatal("initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	cat, err := catalog.LoadDir(cfg.Catalog.Dir)
	if err != nil {
		logging.Logger.Fatal("load catalog", zap.String("dir", cfg.Catalog.Dir), zap.Error(err))
	}
	logging.Logger.Info("catalog loaded",
		zap.String("dir", cfg.Catalog.Dir),
		zap.Int("machines", len(cat.Machines)),
		zap.Int("materials", len(cat.Materials)))

	if err := os.MkdirAll(filepath.Dir(cfg.Capacity.DatabasePath), 0755); err != nil {
		logging.Logger.Fatal("create database directory", zap.Error(err))
	}
	conn, err := db.Open(cfg.Capacity.DatabasePath)
	if err != nil {
		logging.Logger.Fatal("open capacity database", zap.Error(err))
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		logging.Logger.Fatal("migrate capacity database", zap.Error(err))
	}

	scheduler := capacity.New(db.NewCapacityStore(conn), capacity.Config{
		HorizonDays:        cfg.Capacity.HorizonDays,
		StandardOffsetDays: cfg.Capacity.StandardOffsetDays,
		ExpediteOffsetDays: cfg.Capacity.ExpediteOffsetDays,
		DefaultDayMinutes:  cfg.Capacity.DefaultDayMinutes,
	})
	engine := pricing.New(pricing.Config{
		DefaultRegion:      cfg.Catalog.DefaultRegion,
		StandardOffsetDays: cfg.Capacity.StandardOffsetDays,
		ExpediteOffsetDays: cfg.Capacity.ExpediteOffsetDays,
		DayMinutes:         cfg.Capacity.DefaultDayMinutes,
	})

	server := api.NewServer(version, cat, engine, scheduler)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	logging.Logger.Info("shopquote server listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("version", version))
	if err := httpServer.ListenAndServe(); err != nil {
		logging.Logger.Fatal("server exited", zap.Error(err))
	}
}
