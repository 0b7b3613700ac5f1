package injector

import (
	"context"

	catalogbiz "github.com/lk2023060901/myai/internal/catalog/biz"
	catalogdata "github.com/lk2023060901/myai/internal/catalog/data"
	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/server"
)

// App encapsulates all application dependencies
type App struct {
	Config     *conf.Config
	Logger     *logger.Logger
	HTTPServer *server.HTTPServer
	Catalog    *catalogbiz.CatalogUseCase
}

// SeedCatalog upserts the embedded starter catalog when enabled.
func (a *App) SeedCatalog(ctx context.Context) error {
	if !a.Config.Catalog.SeedOnStart {
		return nil
	}
	entries, err := catalogdata.EmbeddedSeed()
	if err != nil {
		return err
	}
	return a.Catalog.Seed(ctx, entries)
}

