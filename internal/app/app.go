package app

import (
	"context"
	"fmt"
	"myNotebook/internal/config"
	"myNotebook/internal/hook"
	"myNotebook/internal/logger"
	"myNotebook/internal/notify"
	"myNotebook/internal/repository/item/inmemory"
	"myNotebook/internal/repository/kv"
	"myNotebook/internal/repository/kv/filekv"
	"myNotebook/internal/repository/kv/memkv"
	"myNotebook/internal/repository/kv/postgreskv"
	"myNotebook/internal/repository/kv/rediskv"
	"myNotebook/internal/repository/kv/sqlitekv"
	"myNotebook/internal/service"
	"myNotebook/internal/worker"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	configPath string
	clock      clock.Clock

	kv            kv.Store
	repository    *inmemory.ItemStorage
	scheduler     *worker.ReminderScheduler
	notifications *notify.Center
	service       *service.NotebookService
	resync        *worker.ResyncJob

	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config, configPath string) *App {
	return &App{
		config:     cfg,
		configPath: configPath,
		clock:      clock.New(),
		shutdowns:  make([]func(), 0),
	}
}

// WithClock подменяет часы, используется в тестах
func (a *App) WithClock(clk clock.Clock) *App {
	a.clock = clk
	return a
}

// Init поднимает логгер, хранилище, уведомления и планировщик, загружает записи.
// logOutput переопределяет logging.output (терминальному интерфейсу нужен файл).
func (a *App) Init(ctx context.Context, logOutput string) error {
	output := a.config.Logging.Output
	if logOutput != "" {
		output = logOutput
	}

	var outputs []string
	if output != "" {
		outputs = append(outputs, output)
	}
	if err := logger.Init(a.config.Logging.Development, outputs...); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	store, err := openStore(ctx, a.config.Storage)
	if err != nil {
		return fmt.Errorf("инициализация хранилища: %w", err)
	}
	a.kv = store
	a.shutdowns = append(a.shutdowns, func() {
		if err := store.Close(); err != nil {
			logger.Warn("Ошибка закрытия хранилища", zap.Error(err))
		}
	})

	permission, err := notify.ParsePermission(a.config.Notifications.Permission)
	if err != nil {
		return fmt.Errorf("настройка уведомлений: %w", err)
	}
	a.notifications = notify.NewCenter(notify.LogSink{}, permission, nil)

	titleFallback := a.config.Reminders.TitleFallback
	bodyFallback := a.config.Reminders.BodyFallback
	a.scheduler = worker.NewReminderScheduler(a.clock, a.notifications, nonEmpty(titleFallback), nonEmpty(bodyFallback))
	a.shutdowns = append(a.shutdowns, a.scheduler.CancelAll)

	a.repository = inmemory.NewItemStorage(store, a.config.Storage.Key)
	a.service = service.NewNotebookService(a.repository, a.scheduler, a.clock)

	scheduled := a.service.Start(ctx)
	logger.Info("Приложение инициализировано",
		zap.String("driver", a.config.Storage.Driver),
		zap.Int("items", a.repository.Len()),
		zap.Int("reminders", scheduled))
	return nil
}

// StartBackground нужен долгоживущим режимам: периодический пересчёт
// напоминаний и установка фонового помощника.
func (a *App) StartBackground(ctx context.Context) error {
	if spec := a.config.Reminders.Resync; spec != "" {
		a.resync = worker.NewResyncJob(a.service.Resync, &spec)
		if err := a.resync.Start(); err != nil {
			return err
		}
		a.shutdowns = append(a.shutdowns, func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			a.resync.Stop(stopCtx)
		})
	}

	if a.config.Background.HelperPath != "" {
		hook.RegisterBestEffort(ctx, hook.NewHelperFile(a.config.Background.HelperPath, a.configPath))
	}
	return nil
}

func (a *App) Config() *config.Config { return a.config }
func (a *App) Service() *service.NotebookService { return a.service }
func (a *App) Notifications() *notify.Center { return a.notifications }
func (a *App) Scheduler() *worker.ReminderScheduler { return a.scheduler }
func (a *App) Repository() *inmemory.ItemStorage { return a.repository }

// Shutdown выполняет функции завершения в обратном порядке
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

func openStore(ctx context.Context, cfg config.StorageConfig) (kv.Store, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return filekv.New(cfg.Path)
	case config.DriverSQLite:
		return sqlitekv.New(ctx, cfg.Path)
	case config.DriverPostgres:
		return postgreskv.New(ctx, cfg.URL)
	case config.DriverRedis:
		return rediskv.New(ctx, cfg.URL)
	case config.DriverMemory:
		return memkv.New(), nil
	}
	return nil, fmt.Errorf("неизвестный драйвер хранилища %q", cfg.Driver)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
