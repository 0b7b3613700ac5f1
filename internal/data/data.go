package data

import (
	"context"
	"fmt"

	authmodels "github.com/lk2023060901/myai/internal/auth/models"
	catalogmodels "github.com/lk2023060901/myai/internal/catalog/models"
	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/pkg/database"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/redis"
	"go.uber.org/zap"
)

// Data holds the shared connections of the backend.
type Data struct {
	DB *database.DB
	// Redis is nil when redis is disabled.
	Redis *redis.Client
	// KV is redis backed, or process memory without redis.
	KV     kv.Store
	Logger *logger.Logger
}

// NewData connects postgres and redis and migrates the schema.
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	db, err := database.New(&config.Database, log.Named("database"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}

	models := append(catalogmodels.All(), authmodels.All()...)
	if err := db.AutoMigrate(models...); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	d := &Data{DB: db, Logger: log}
	if config.Redis.Enabled {
		client, err := redis.New(&config.Redis, log)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to init redis: %w", err)
		}
		d.Redis = client
		d.KV = kv.NewRedis(client, 0)
	} else {
		log.Warn("redis disabled: oauth state and preferences stay in process memory, rate limits are off")
		d.KV = kv.NewMemory()
	}

	cleanup := func() {
		log.Info("cleaning up data resources")
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
		if d.Redis != nil {
			if err := d.Redis.Close(); err != nil {
				log.Error("failed to close redis", zap.Error(err))
			}
		}
	}
	return d, cleanup, nil
}

// HealthCheck pings postgres and, when enabled, redis.
func (d *Data) HealthCheck(ctx context.Context) error {
	if err := d.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if d.Redis != nil {
		if err := d.Redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
