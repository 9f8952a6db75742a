// Package scheduler runs the periodic maintenance jobs: the utility
// cost consistency sweep and audit log retention. Jobs are read-mostly
// and idempotent, so a crashed run needs no recovery beyond the next
// tick.
package scheduler

import (
	"context"
	"time"

	auditdomain "github.com/villagiolabs/villagio/internal/audit/domain"
	"github.com/villagiolabs/villagio/internal/clock"
	"github.com/villagiolabs/villagio/internal/config"
	utilitydomain "github.com/villagiolabs/villagio/internal/utility/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultUtilityCheckInterval = 6 * time.Hour
	defaultAuditPruneInterval   = 24 * time.Hour
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Config  config.Config
	Clock   clock.Clock
	Utility utilitydomain.Service
	Audit   auditdomain.Service
}

type Scheduler struct {
	log     *zap.Logger
	cfg     config.SchedulerConfig
	clock   clock.Clock
	utility utilitydomain.Service
	audit   auditdomain.Service
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:     p.Log.Named("scheduler"),
		cfg:     p.Config.Scheduler,
		clock:   p.Clock,
		utility: p.Utility,
		audit:   p.Audit,
	}
}

// RunForever ticks the maintenance jobs until the context is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	utilityInterval := s.cfg.UtilityCheckInterval
	if utilityInterval <= 0 {
		utilityInterval = defaultUtilityCheckInterval
	}
	pruneInterval := s.cfg.AuditPruneInterval
	if pruneInterval <= 0 {
		pruneInterval = defaultAuditPruneInterval
	}

	utilityTicker := time.NewTicker(utilityInterval)
	defer utilityTicker.Stop()
	pruneTicker := time.NewTicker(pruneInterval)
	defer pruneTicker.Stop()

	s.log.Info("scheduler started",
		zap.Duration("utility_check_interval", utilityInterval),
		zap.Duration("audit_prune_interval", pruneInterval),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-utilityTicker.C:
			if err := s.RunUtilityConsistencyJob(ctx); err != nil {
				s.log.Error("utility consistency job failed", zap.Error(err))
			}
		case <-pruneTicker.C:
			if err := s.RunAuditRetentionJob(ctx); err != nil {
				s.log.Error("audit retention job failed", zap.Error(err))
			}
		}
	}
}

// RunUtilityConsistencyJob recomputes every cached utility cost and
// reports drift. It never rewrites rows; a drift means either a village
// price changed after the fact or a write went around the service.
func (s *Scheduler) RunUtilityConsistencyJob(ctx context.Context) error {
	drifts, err := s.utility.CheckConsistency(ctx)
	if err != nil {
		return err
	}
	if len(drifts) == 0 {
		s.log.Debug("utility cost cache consistent")
		return nil
	}
	for _, drift := range drifts {
		s.log.Warn("utility cost cache drift",
			zap.String("reading_id", drift.ReadingID),
			zap.String("apartment_id", drift.ApartmentID),
			zap.String("stored_water_cost", drift.StoredWaterCost.String()),
			zap.String("expected_water_cost", drift.ExpectedWaterCost.String()),
			zap.String("stored_electricity_cost", drift.StoredElectricityCost.String()),
			zap.String("expected_electricity_cost", drift.ExpectedElectricityCost.String()),
		)
	}
	report := auditdomain.Entry{
		ActorType:  auditdomain.ActorTypeSystem,
		ActorID:    "scheduler",
		Action:     "utility.consistency_drift",
		EntityType: "utility_reading",
		Detail:     drifts,
	}
	return s.audit.Record(ctx, report)
}

// RunAuditRetentionJob prunes audit rows past the retention horizon.
// Retention disabled (zero) keeps everything.
func (s *Scheduler) RunAuditRetentionJob(ctx context.Context) error {
	retention := s.cfg.AuditRetention
	if retention <= 0 {
		s.log.Debug("audit retention disabled")
		return nil
	}
	cutoff := s.clock.Now(ctx).Add(-retention)
	deleted, err := s.audit.Prune(ctx, cutoff)
	if err != nil {
		return err
	}
	s.log.Info("audit retention completed", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	return nil
}
