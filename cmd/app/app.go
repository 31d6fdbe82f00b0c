package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/event-api/internal/api"
	"github.com/vietanh2810/event-api/internal/config"
	"github.com/vietanh2810/event-api/internal/db"
	"github.com/vietanh2810/event-api/internal/logger"
	"github.com/vietanh2810/event-api/internal/notify"
	"github.com/vietanh2810/event-api/internal/repository/dao"
)

const defaultConfigPath = "./cmd/app/config.yml"

func bootstrap(configPath string) (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	gdb, err := db.Open(conf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	return conf, gdb, nil
}

// Serve migrates the schema, then runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, configPath string) error {
	conf, gdb, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = zap.L().Sync() }()

	if err = dao.InitTables(gdb, conf.Categories); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	publisher, err := newPublisher(conf.Notify)
	if err != nil {
		return fmt.Errorf("failed to initialize notifications -> %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zap.L().Warn("failed to close publisher", zap.Error(err))
		}
	}()

	s, err := api.NewServer(conf, gdb, publisher)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	return s.Run(ctx)
}

// Migrate creates or updates the tables and seeds the configured categories.
func Migrate(configPath string) error {
	conf, gdb, err := bootstrap(configPath)
	if err != nil {
		return err
	}

	if err = dao.InitTables(gdb, conf.Categories); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	zap.L().Info("database migrated", zap.String("driver", conf.Database.Driver))

	return nil
}

func newPublisher(conf *config.NotifyConfig) (notify.Publisher, error) {
	if conf == nil || !conf.Enabled {
		return notify.Nop{}, nil
	}

	return notify.NewAMQPPublisher(conf)
}
