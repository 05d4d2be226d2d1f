package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskPlanner/internal/config"
	"taskPlanner/internal/handlers"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/middleware"
	"taskPlanner/internal/repository/task/inmemory"
	"taskPlanner/internal/repository/task/postgres"
	"taskPlanner/internal/service"
	"taskPlanner/internal/worker"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository
	service    *service.TaskService
	worker     *worker.ReportWorker
	shutdowns  []func() // функции для graceful shutdown, вызываются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})

	repoType, err := a.initRepository(ctx)
	if err != nil {
		a.Shutdown()
		return nil, err
	}

	taskService := service.NewTaskService(a.repository, repoType,
		service.WithReportCacheSize(a.config.Reports.CacheSize))
	a.service = &taskService

	if a.config.Worker.Enabled {
		interval := a.config.Worker.Interval
		a.worker = worker.NewReportWorker(a.service, &interval)
	}

	a.router = a.newRouter()
	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("repository", string(repoType)),
		zap.String("addr", a.server.Addr),
		zap.Bool("worker", a.worker != nil))
	return a, nil
}

func (a *App) initRepository(ctx context.Context) (service.RepoType, error) {
	if a.config.Repository.Type != config.RepositoryPostgres {
		a.repository = inmemory.NewTaskStorage()
		return service.InMemoryType, nil
	}

	storage, err := postgres.New(ctx, a.config.DatabaseURL())
	if err != nil {
		return "", fmt.Errorf("подключение к базе: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Закрытие пула соединений с базой...")
		storage.Close()
	})

	if err := storage.Migrate(); err != nil {
		return "", fmt.Errorf("миграции базы: %w", err)
	}

	a.repository = storage
	return service.DBType, nil
}

func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(chimiddleware.Timeout(a.config.Server.RequestTimeout))
	r.Use(middleware.RateLimit(a.config.RateLimit.RPS, a.config.RateLimit.Burst, a.config.RateLimit.TTL))

	handlers.Routes(r, handlers.NewTaskHandler(a.service))
	return r
}

// Run запускает сервер и воркер и блокируется до отмены ctx или ошибки сервера
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerDone := make(chan struct{})
	if a.worker != nil {
		go func() {
			defer close(workerDone)
			a.worker.Start(ctx)
		}()
	} else {
		close(workerDone)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("App: Получен сигнал остановки")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("работа сервера: %w", err)
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer stop()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("App: Ошибка остановки сервера", err)
	}

	cancel()
	<-workerDone

	a.Shutdown()
	return runErr
}

func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = a.shutdowns[:0]
}
