package worker

import (
	"context"
	"time"

	"taskPlanner/internal/logger"
	"taskPlanner/internal/report"

	"go.uber.org/zap"
)

const DefaultInterval = 5 * time.Minute

// WeeklyReporter строит недельный отчёт; им является сервис задач
type WeeklyReporter interface {
	WeeklyReport(ctx context.Context, weekStart time.Time) (*report.WeeklyReport, error)
}

// ReportWorker периодически пересчитывает отчёт за текущую неделю, чтобы он
// лежал в кэше сервиса к приходу запроса.
type ReportWorker struct {
	reporter WeeklyReporter
	interval time.Duration
	now      func() time.Time
}

func NewReportWorker(reporter WeeklyReporter, interval *time.Duration) *ReportWorker {
	intervalToSet := DefaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	return &ReportWorker{
		reporter: reporter,
		interval: intervalToSet,
		now:      time.Now,
	}
}

func (w *ReportWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)

	for {
		select {
		case <-ticker.C:
			logger.Debug("Worker: Фоновый пересчёт отчёта", zap.Time("started_at", w.now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновый пересчёт отчёта останавливается")
			return
		}
	}
}

// Check строит отчёт за текущую неделю и возвращает его (nil при ошибке)
func (w *ReportWorker) Check(ctx context.Context) *report.WeeklyReport {
	start := time.Now()
	weekStart := report.WeekStart(w.now())

	weekly, err := w.reporter.WeeklyReport(ctx, weekStart)
	if err != nil {
		logger.Warn("Worker: Ошибка построения отчёта",
			zap.String("week", weekStart.Format(time.DateOnly)),
			zap.Error(err))
		return nil
	}

	logger.Info(
		"Worker: Отчёт за неделю обновлён",
		zap.String("week", weekly.WeekStart),
		zap.Int("tasks", weekly.TotalTasks),
		zap.Int("completion_rate", weekly.CompletionRate),
		zap.String("total", report.FormatDuration(weekly.TotalDuration)),
		zap.Duration("ms", time.Since(start)),
	)
	return weekly
}
