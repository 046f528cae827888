package worker

import (
	"context"
	"fmt"
	"myNotebook/internal/logger"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultResyncSpec = "@every 5m"

// ResyncFunc перечитывает записи и пересчитывает таймеры, возвращает число поставленных
type ResyncFunc func(ctx context.Context) int

// ResyncJob периодически пересчитывает все таймеры от настенного времени.
// Таймеры Go считают монотонное время, которое стоит, пока машина спит,
// а записи в хранилище могут менять другие процессы.
type ResyncJob struct {
	cron   *cron.Cron
	resync ResyncFunc
	spec   string
}

func NewResyncJob(resync ResyncFunc, spec *string) *ResyncJob {
	specToSet := DefaultResyncSpec
	if spec != nil {
		specToSet = *spec
	}

	return &ResyncJob{
		cron:   cron.New(),
		resync: resync,
		spec:   specToSet,
	}
}

func (j *ResyncJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.RunOnce); err != nil {
		return fmt.Errorf("регистрация задачи пересчёта %q: %w", j.spec, err)
	}
	j.cron.Start()

	logger.Info("Worker: Периодический пересчёт напоминаний запущен", zap.String("spec", j.spec))
	return nil
}

func (j *ResyncJob) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	scheduled := j.resync(ctx)
	logger.Debug("Worker: Пересчёт выполнен", zap.Int("scheduled", scheduled))
}

// Stop ждёт завершения задачи, если она сейчас выполняется
func (j *ResyncJob) Stop(ctx context.Context) {
	stopped := j.cron.Stop()
	select {
	case <-stopped.Done():
		logger.Info("Worker: Периодический пересчёт остановлен")
	case <-ctx.Done():
		logger.Warn("Worker: Пересчёт не успел завершиться", zap.Error(ctx.Err()))
	}
}
