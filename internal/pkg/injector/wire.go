//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	authbiz "github.com/lk2023060901/myai/internal/auth/biz"
	catalogbiz "github.com/lk2023060901/myai/internal/catalog/biz"
	catalogservice "github.com/lk2023060901/myai/internal/catalog/service"
	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	plannerbiz "github.com/lk2023060901/myai/internal/planner/biz"
	plannerservice "github.com/lk2023060901/myai/internal/planner/service"
	userbiz "github.com/lk2023060901/myai/internal/user/biz"
	userservice "github.com/lk2023060901/myai/internal/user/service"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	// Data layer
	dataProviderSet,

	// Repositories
	repositoryProviderSet,

	// Use cases
	useCaseProviderSet,

	// HTTP services
	httpServiceProviderSet,

	// Servers
	serverProviderSet,
)

var dataProviderSet = wire.NewSet(
	provideData,
	provideRedisClient,
	provideMetrics,
	provideRecorder,
)

var repositoryProviderSet = wire.NewSet(
	provideAuthUserRepo,
	provideStateStore,
	providePrefsRepo,
	provideToolRepo,
	provideStepGenerator,
	provideToolIndex,
	provideRatingsSource,
)

var useCaseProviderSet = wire.NewSet(
	provideJWTManager,
	provideCookieConfig,
	provideGoogleProvider,
	authbiz.NewAuthUseCase,
	userbiz.NewPrefsUseCase,
	catalogbiz.NewCatalogUseCase,
	provideInventory,
	plannerbiz.NewPlannerUseCase,
)

var httpServiceProviderSet = wire.NewSet(
	provideAuthService,
	userservice.NewPrefsService,
	catalogservice.NewCatalogService,
	plannerservice.NewPlannerService,
)

var serverProviderSet = wire.NewSet(
	provideHTTPServer,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}

