package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/task_management_sample/apigateway/internal/config"
	"github.com/locvowork/task_management_sample/apigateway/internal/database"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/handler"
	"github.com/locvowork/task_management_sample/apigateway/internal/logger"
	"github.com/locvowork/task_management_sample/apigateway/internal/repository"
	"github.com/locvowork/task_management_sample/apigateway/internal/service"
	"github.com/locvowork/task_management_sample/apigateway/pkg/googlecloud"
	"gorm.io/gorm"
)

const (
	TasksPath = "/tasks"
	// LegacyTasksPath is the path the web client was first built against.
	LegacyTasksPath = "/api/tarefas"
)

type App struct {
	Echo *echo.Echo
	SQL  *sql.DB
	DB   *gorm.DB
	GCP  *googlecloud.Client
}

// Options are the presentation settings passed to Wire.
type Options struct {
	Location     *time.Location
	ExportLayout string
	AllowOrigins []string
	Ping         handler.Pinger
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{Echo: e}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	logger.InitLogging(cfg.LOG_FILE_PATH)
	logger.SetLevel(cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	loc, err := time.LoadLocation(cfg.DISPLAY_TIMEZONE)
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	var layout string
	if cfg.EXPORT_LAYOUT_PATH != "" {
		data, err := os.ReadFile(cfg.EXPORT_LAYOUT_PATH)
		if err != nil {
			return fmt.Errorf("failed to read export layout: %w", err)
		}
		layout = string(data)
	}

	repo, ping, err := a.initStore(ctx)
	if err != nil {
		return err
	}

	return a.Wire(repo, Options{
		Location:     loc,
		ExportLayout: layout,
		AllowOrigins: strings.Split(cfg.CORS_ALLOW_ORIGINS, ","),
		Ping:         ping,
	})
}

// initStore opens the backend selected by TASK_STORE and DB_DRIVER.
func (a *App) initStore(ctx context.Context) (domain.TaskRepository, handler.Pinger, error) {
	cfg := config.DefaultEnvConfig

	if cfg.TASK_STORE == "datastore" {
		if host := googlecloud.EmulatorHost(); host != "" {
			logger.InfoLog(ctx, "Initializing Datastore client against emulator at %s", host)
		}
		gcpClient, err := googlecloud.NewClient(ctx, cfg.GCP_PROJECT_ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize GCP client: %w", err)
		}
		a.GCP = gcpClient
		logger.InfoLog(ctx, "Using Datastore task store (project %s)", cfg.GCP_PROJECT_ID)
		return repository.NewDatastoreTaskRepository(gcpClient), nil, nil
	}

	switch cfg.DB_DRIVER {
	case "sqlite":
		db, err := database.NewSQLiteDB(cfg.DB_SQLITE_PATH)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db
		if a.SQL, err = db.DB(); err != nil {
			return nil, nil, err
		}
	default:
		sqlDB, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.SQL = sqlDB
		if a.DB, err = database.NewGormDB(sqlDB); err != nil {
			return nil, nil, err
		}
	}

	if err := repository.Migrate(a.DB); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.InfoLog(ctx, "Using %s task store", cfg.DB_DRIVER)
	return repository.NewTaskRepository(a.DB), a.SQL.PingContext, nil
}

// Wire builds the service and handlers on top of repo and registers them on the echo instance.
func (a *App) Wire(repo domain.TaskRepository, opts Options) error {
	svc := service.NewTaskService(repo)

	taskHandler := handler.NewTaskHandler(svc, opts.Location)
	exportHandler, err := handler.NewExportHandler(svc, opts.Location, opts.ExportLayout)
	if err != nil {
		return err
	}
	docsHandler, err := handler.NewDocsHandler(TasksPath)
	if err != nil {
		return err
	}
	healthHandler := handler.NewHealthHandler(opts.Ping)

	a.Echo.HTTPErrorHandler = handler.ErrorHandler
	a.Echo.Validator = handler.NewRequestValidator()

	a.RegisterMiddlewares(opts.AllowOrigins)
	a.RegisterRoutes(taskHandler, exportHandler, docsHandler, healthHandler)
	return nil
}

func (a *App) RegisterMiddlewares(allowOrigins []string) {
	a.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			c.SetRequest(c.Request().WithContext(logger.WithRequestID(c.Request().Context(), id)))
		},
	}))
	a.Echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		// the error handler writes the response first, so the logged status is the one sent
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.InfoLog(c.Request().Context(), "%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	a.Echo.Use(middleware.Recover())

	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	a.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
}

func (a *App) RegisterRoutes(taskHandler *handler.TaskHandler, exportHandler *handler.ExportHandler,
	docsHandler *handler.DocsHandler, healthHandler *handler.HealthHandler) {
	for _, path := range []string{TasksPath, LegacyTasksPath} {
		g := a.Echo.Group(path)
		g.POST("", taskHandler.CreateHandler)
		g.GET("", taskHandler.ListHandler)
		g.GET("/export", exportHandler.ExportBoardHandler)
		g.GET("/:id", taskHandler.GetHandler)
		g.PUT("/:id", taskHandler.UpdateHandler)
		g.DELETE("/:id", taskHandler.DeleteLogicalHandler)
		g.DELETE("/:id/hard", taskHandler.DeletePhysicalHandler)
	}

	a.Echo.GET("/openapi.yaml", docsHandler.OpenAPIHandler)
	a.Echo.GET("/health", healthHandler.HealthHandler)
}

// Run serves HTTP until a termination signal arrives, then drains requests and closes the stores.
func (a *App) Run(ctx context.Context) error {
	addr := ":" + config.DefaultEnvConfig.APP_PORT
	startErr := make(chan error, 1)
	go func() {
		logger.InfoLog(ctx, "HTTP server listening on %s", addr)
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			startErr <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		ctx,
		config.DefaultEnvConfig.SHUTDOWN_TIMEOUT,
		map[string]gfshutdown.Operation{
			"task-api": func(ctx context.Context) error {
				logger.InfoLog(ctx, "Graceful shutdown initiated...")
				err := a.Echo.Shutdown(ctx)
				if closeErr := a.Close(); closeErr != nil {
					err = errors.Join(err, closeErr)
				}
				return err
			},
		},
	)

	select {
	case err := <-startErr:
		if closeErr := a.Close(); closeErr != nil {
			logger.ErrorLog(ctx, "failed to close stores: %v", closeErr)
		}
		return fmt.Errorf("failed to start HTTP server on %s: %w", addr, err)
	case exitCode := <-wait:
		if exitCode != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", exitCode)
		}
		return nil
	}
}

// Close releases the store handles opened by Initialize.
func (a *App) Close() error {
	var errs []error
	if a.SQL != nil {
		errs = append(errs, a.SQL.Close())
	}
	if a.GCP != nil {
		errs = append(errs, a.GCP.Close())
	}
	errs = append(errs, logger.Close())
	return errors.Join(errs...)
}
