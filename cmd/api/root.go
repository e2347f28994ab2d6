package main

import (
	"context"
	"log/slog"

	"shopease/internal/config"
	"shopease/internal/infra/db"
	logs "shopease/internal/infra/log"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "api",
	Short:         "ShopEase marketplace backend",
	SilenceUsage: true,
}

// env is what every subcommand needs: settings, a logger and an open database.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logs.New(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	gormDB, err := db.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect database failed")
	}
	return &env{cfg: cfg, logger: logger, db: gormDB}, nil
}

func (e *env) close() {
	if err := db.Close(e.db); err != nil {
		e.logger.Warn("close database failed", slog.Any("error", err))
	}
}
