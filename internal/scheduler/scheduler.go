package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/config"
	"github.com/caserito/atelier/internal/service/reporting"
	"github.com/caserito/atelier/pkg/clients/notify"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	alerts       notify.Client
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. The alert client may be nil
// when no webhook is configured; snapshots still run.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, alerts notify.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	var opts []cron.Option
	if loc, err := time.LoadLocation(cfg.Reporting.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("invalid timezone, scheduler falls back to local time", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:         cron.New(opts...),
		reportingSvc: reportingSvc,
		alerts:       alerts,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers and starts the nightly KPI snapshot job.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.snapshotAndAlert); err != nil {
		s.logger.Error("failed to schedule kpi snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) snapshotAndAlert() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot, err := s.reportingSvc.SnapshotKPIs(ctx)
	if err != nil {
		s.logger.Error("failed to capture kpi snapshot", zap.Error(err))
		return
	}
	s.logger.Info("kpi snapshot captured",
		zap.Time("date", snapshot.Date),
		zap.Int("low_stock_count", snapshot.LowStockCount))

	if s.alerts == nil || snapshot.LowStockCount == 0 {
		return
	}

	message, err := s.reportingSvc.LowStockMessage(ctx)
	if err != nil {
		s.logger.Error("failed to build low-stock alert", zap.Error(err))
		return
	}
	if message == "" {
		return
	}

	if err := s.alerts.SendAlert(ctx, notify.SendAlertRequest{Title: "Caserito Store", Body: message}); err != nil {
		s.logger.Error("failed to send low-stock alert", zap.Error(err))
	} else {
		s.logger.Info("low-stock alert sent")
	}
}
