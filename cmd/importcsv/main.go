package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"pnltracker/internal/config"
	"pnltracker/internal/db"
	"pnltracker/internal/importer"
	"pnltracker/internal/logger"
	gormrepository "pnltracker/internal/repository/gorm"
	"pnltracker/internal/settle"
)

func main() {
	cfgPath := flag.String("config", "", "config file path (defaults to PNL_CONFIG or config/config.yaml)")
	dir := flag.String("dir", ".", "directory holding goldilocks_v2_*.csv export files")
	flag.Parse()

	path := *cfgPath
	if path == "" {
		path = os.Getenv("PNL_CONFIG")
	}
	if path == "" {
		path = "config/config.yaml"
	}
	envOnly := false
	if envOnlyRaw := os.Getenv("PNL_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(path, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	im := &importer.Importer{
		Repo:     store,
		Bankroll: settle.NewBankrollService(store, logger, cfg.Betting.StartingBankroll),
		Logger:   logger,
	}

	total, err := im.ImportDir(context.Background(), *dir)
	if err != nil {
		logger.Fatal("import failed", zap.Int("imported", total), zap.Error(err))
	}
	logger.Info("import complete", zap.Int("imported", total))
}
