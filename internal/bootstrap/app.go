package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/locvowork/orgmaker/internal/chart"
	"github.com/locvowork/orgmaker/internal/classifier"
	"github.com/locvowork/orgmaker/internal/config"
	"github.com/locvowork/orgmaker/internal/domain"
	"github.com/locvowork/orgmaker/internal/feed"
	"github.com/locvowork/orgmaker/internal/handler"
	"github.com/locvowork/orgmaker/internal/logger"
	"github.com/locvowork/orgmaker/internal/metrics"
	"github.com/locvowork/orgmaker/internal/service"
)

type App struct {
	Echo    *echo.Echo
	Service *service.OrgChartService
	Metrics *metrics.Collector
}

func NewApp() *App {
	m := metrics.NewCollector("orgmaker")
	m.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &App{
		Echo:    echo.New(),
		Metrics: m,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	chartCfg, err := config.LoadChartConfig(cfg.CHART_CONFIG_PATH)
	if err != nil {
		return fmt.Errorf("failed to load chart config: %w", err)
	}

	var employeeFeed domain.EmployeeFeed
	employeeFeed, err = feed.New(feed.Config{
		URL:                cfg.FEED_URL,
		File:               cfg.FEED_FILE,
		Timeout:            cfg.FEED_TIMEOUT,
		BreakerMaxFailures: uint32(max(cfg.FEED_BREAKER_MAX_FAILURES, 0)),
		BreakerTimeout:     cfg.FEED_BREAKER_TIMEOUT,
	})
	if errors.Is(err, feed.ErrNoSource) {
		logger.WarnLog(ctx, "No FEED_URL or FEED_FILE set, the employee pool stays empty")
		employeeFeed = nil
	} else if err != nil {
		return fmt.Errorf("failed to initialize employee feed: %w", err)
	}

	if err := a.Setup(ctx, employeeFeed, chartCfg); err != nil {
		return err
	}

	if employeeFeed != nil && cfg.FEED_REFRESH_ON_START {
		if err := a.Service.RefreshPoolAsync(); err != nil {
			logger.WarnLog(ctx, "Initial pool refresh not started: %v", err)
		}
	}
	return nil
}

// Setup wires the application state and HTTP layer around an already
// chosen feed and chart config.
func (a *App) Setup(ctx context.Context, employeeFeed domain.EmployeeFeed, chartCfg *config.ChartConfig) error {
	roles, err := classifier.New(chartCfg.LeaderRoles)
	if err != nil {
		return fmt.Errorf("failed to build role classifier: %w", err)
	}

	charts := chart.NewStore(roles, chart.WithRecorder(a.Metrics))
	a.Service = service.NewOrgChartService(ctx, employeeFeed, charts, chartCfg.Levels,
		service.WithFeedRecorder(a.Metrics),
		service.WithRefreshTimeout(refreshTimeout()),
	)

	// Initialize handlers
	poolHandler := handler.NewPoolHandler(a.Service)
	chartHandler := handler.NewChartHandler(a.Service)
	levelHandler := handler.NewLevelHandler(a.Service, roles)

	a.Echo.Validator = handler.NewRequestValidator()

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(poolHandler, chartHandler, levelHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(logger.RequestContext())
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(a.Metrics.Middleware())
}

func (a *App) RegisterRoutes(poolHandler *handler.PoolHandler, chartHandler *handler.ChartHandler, levelHandler *handler.LevelHandler) {
	g := a.Echo.Group(basePath())

	poolGroup := g.Group("/pool")
	poolGroup.GET("", poolHandler.ListHandler)
	poolGroup.POST("/refresh", poolHandler.RefreshHandler)
	poolGroup.POST("/selection/all", poolHandler.SelectAllHandler)
	poolGroup.POST("/selection/toggle/:id", poolHandler.ToggleHandler)
	poolGroup.POST("/selection/:id", poolHandler.SelectHandler)
	poolGroup.DELETE("/selection/:id", poolHandler.DeselectHandler)
	poolGroup.DELETE("/selection", poolHandler.ClearSelectionHandler)

	chartGroup := g.Group("/chart")
	chartGroup.GET("", chartHandler.GetHandler)
	chartGroup.GET("/stats", chartHandler.StatsHandler)
	chartGroup.GET("/export", chartHandler.ExportHandler)
	chartGroup.POST("/reset", chartHandler.ResetHandler)
	chartGroup.POST("/drop", chartHandler.DropHandler)
	chartGroup.POST("/nodes/org", chartHandler.AddOrgHandler)
	chartGroup.POST("/nodes/person", chartHandler.AddPersonHandler)
	chartGroup.GET("/nodes/:id", chartHandler.NodeHandler)
	chartGroup.POST("/nodes/:id/selected", chartHandler.AddSelectedHandler)
	chartGroup.PATCH("/nodes/:id/label", chartHandler.UpdateLabelHandler)
	chartGroup.PUT("/nodes/:id/parent", chartHandler.ReparentHandler)
	chartGroup.DELETE("/nodes/:id", chartHandler.DeleteHandler)

	g.GET("/levels", levelHandler.ListHandler)
	g.GET("/roles", levelHandler.RolesHandler)
	g.PATCH("/levels/:index", levelHandler.UpdateHandler)

	g.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))
	g.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

func (a *App) Run() error {
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

// Shutdown stops the server and waits for background refreshes.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if a.Service != nil {
		a.Service.Wait()
	}
	return err
}

func basePath() string {
	if config.DefaultEnvConfig == nil {
		return ""
	}
	return config.DefaultEnvConfig.BASE_PATH
}

func refreshTimeout() time.Duration {
	if config.DefaultEnvConfig == nil || config.DefaultEnvConfig.FEED_TIMEOUT <= 0 {
		return 30 * time.Second
	}
	// one feed timeout plus room for parsing
	return config.DefaultEnvConfig.FEED_TIMEOUT + 5*time.Second
}
