package injector

import (
	"github.com/lk2023060901/myai/internal/auth"
	authbiz "github.com/lk2023060901/myai/internal/auth/biz"
	authdata "github.com/lk2023060901/myai/internal/auth/data"
	authservice "github.com/lk2023060901/myai/internal/auth/service"
	catalogbiz "github.com/lk2023060901/myai/internal/catalog/biz"
	catalogdata "github.com/lk2023060901/myai/internal/catalog/data"
	catalogservice "github.com/lk2023060901/myai/internal/catalog/service"
	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/data"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/metrics"
	"github.com/lk2023060901/myai/internal/pkg/oauth2"
	pkgredis "github.com/lk2023060901/myai/internal/pkg/redis"
	plannerbiz "github.com/lk2023060901/myai/internal/planner/biz"
	plannerdata "github.com/lk2023060901/myai/internal/planner/data"
	plannerservice "github.com/lk2023060901/myai/internal/planner/service"
	"github.com/lk2023060901/myai/internal/server"
	userbiz "github.com/lk2023060901/myai/internal/user/biz"
	userdata "github.com/lk2023060901/myai/internal/user/data"
	userservice "github.com/lk2023060901/myai/internal/user/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Data layer helpers

func provideData(config *conf.Config, log *logger.Logger) (*data.Data, func(), error) {
	return data.NewData(config, log)
}

// provideRedisClient returns nil when redis is disabled.
func provideRedisClient(d *data.Data) *pkgredis.Client {
	return d.Redis
}

func provideMetrics(config *conf.Config) *metrics.Prometheus {
	if !config.Metrics.Enabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg)
}

func provideRecorder(prom *metrics.Prometheus) metrics.Recorder {
	if prom == nil {
		return metrics.Nop()
	}
	return prom
}

// Repository providers

func provideAuthUserRepo(d *data.Data) authbiz.UserRepo {
	return authdata.NewUserRepo(d.DB)
}

// provideStateStore keeps OAuth states in redis with the configured TTL.
func provideStateStore(d *data.Data, config *conf.Config) authbiz.StateStore {
	store := d.KV
	if d.Redis != nil {
		store = kv.NewRedis(d.Redis, config.Auth.StateTTL)
	}
	return authdata.NewStateStore(store)
}

func providePrefsRepo(d *data.Data, log *logger.Logger) userbiz.PrefsRepo {
	return userdata.NewPrefsRepo(d.KV, log)
}

func provideToolRepo(d *data.Data) catalogbiz.ToolRepo {
	return catalogdata.NewToolRepo(d.DB)
}

func provideStepGenerator(config *conf.Config, log *logger.Logger) plannerbiz.StepGenerator {
	return plannerdata.NewGroqStepGenerator(config.Planner.Groq, log)
}

func provideToolIndex(config *conf.Config, redis *pkgredis.Client, log *logger.Logger) plannerbiz.ToolIndex {
	return plannerdata.NewToolIndex(plannerdata.NewEmbedder(config.Planner.Embedding, redis, log), log)
}

func provideRatingsSource(config *conf.Config, d *data.Data, rec metrics.Recorder, log *logger.Logger) plannerbiz.RatingsSource {
	return plannerdata.NewRatingsClient(config.Planner.Ratings, d.KV, rec, log)
}

// Use case providers

func provideJWTManager(config *conf.Config) *auth.JWTManager {
	a := config.Auth
	return auth.NewJWTManager(a.JWTSecret, a.JWTIssuer, a.AccessTTL, a.RefreshTTL)
}

func provideCookieConfig(config *conf.Config) auth.CookieConfig {
	return auth.CookieConfig{
		Secure:   config.Auth.CookieSecure,
		SameSite: config.Auth.CookieSameSite,
		Domain:   config.Auth.CookieDomain,
	}
}

// provideGoogleProvider returns nil when Google login is not configured.
func provideGoogleProvider(config *conf.Config) (oauth2.Provider, error) {
	g := config.Google
	if !g.Enabled() {
		return nil, nil
	}
	p, err := oauth2.NewGoogleProvider(&oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func provideInventory(uc *catalogbiz.CatalogUseCase) plannerbiz.Inventory {
	return uc
}

// HTTP service providers

func provideAuthService(uc *authbiz.AuthUseCase, cookies auth.CookieConfig, config *conf.Config, redis *pkgredis.Client, log *logger.Logger) *authservice.AuthService {
	return authservice.NewAuthService(uc, cookies, config.Google, redis, log)
}

// Server providers

func provideHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	prom *metrics.Prometheus,
	d *data.Data,
	authService *authservice.AuthService,
	prefsService *userservice.PrefsService,
	catalogService *catalogservice.CatalogService,
	plannerService *plannerservice.PlannerService,
) *server.HTTPServer {
	return server.NewHTTPServer(config, log, prom, d,
		authService, prefsService, catalogService, plannerService)
}

func newApp(
	config *conf.Config,
	log *logger.Logger,
	httpServer *server.HTTPServer,
	catalog *catalogbiz.CatalogUseCase,
) *App {
	return &App{
		Config:     config,
		Logger:     log,
		HTTPServer: httpServer,
		Catalog:    catalog,
	}
}
