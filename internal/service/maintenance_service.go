// internal/service/maintenance_service.go
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/mikelezc/proyecto-sherpa/pkg/notify"
)

// DefaultArchiveRetention is how long archived tasks are kept before the
// cleanup job deletes them.
const DefaultArchiveRetention = 30 * 24 * time.Hour

// reindexWorkers bounds the concurrent per-task vector refreshes during
// an incremental reindex.
const reindexWorkers = 8

// MaintenanceService runs the periodic jobs: the overdue sweep, archived
// task cleanup and search index reindexing.
type MaintenanceService struct {
	store     Store
	notifier  notify.Dispatcher
	log       *slog.Logger
	retention time.Duration
	now       func() time.Time
}

func NewMaintenanceService(store Store, notifier notify.Dispatcher, log *slog.Logger, retention time.Duration) *MaintenanceService {
	if retention <= 0 {
		retention = DefaultArchiveRetention
	}
	return &MaintenanceService{
		store:     store,
		notifier:  notifier,
		log:       log,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SweepOverdue flags active tasks past their due date and fires an
// overdue notification for each. Returns how many tasks were flagged.
func (s *MaintenanceService) SweepOverdue(ctx context.Context) (int, error) {
	tasks, err := s.store.MarkOverdueTasks(ctx, s.now())
	if err != nil {
		return 0, statusError(err)
	}

	for _, t := range tasks {
		if err := s.notifier.Fire(ctx, t.ID, notify.KindOverdue); err != nil {
			s.log.Warn("notification dispatch failed", "task_id", t.ID, "kind", notify.KindOverdue, "error", err)
		}
	}
	if len(tasks) > 0 {
		s.log.Info("overdue sweep complete", "flagged", len(tasks))
	}
	return len(tasks), nil
}

// CleanupArchived hard-deletes archived tasks untouched for longer than
// the retention window. Dependent rows go with them via cascade.
func (s *MaintenanceService) CleanupArchived(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	deleted, err := s.store.DeleteArchivedBefore(ctx, cutoff)
	if err != nil {
		return 0, statusError(err)
	}
	if deleted > 0 {
		s.log.Info("archive cleanup complete", "deleted", deleted)
	}
	return deleted, nil
}

// Reindex refreshes the search index. Incremental mode touches only
// tasks whose vector is missing or older than their last update; full
// mode rewrites every row. Both are safe to re-run.
func (s *MaintenanceService) Reindex(ctx context.Context, full bool) (int64, error) {
	if full {
		n, err := s.store.RebuildSearchIndex(ctx)
		if err != nil {
			return 0, statusError(err)
		}
		s.log.Info("full reindex complete", "tasks", n)
		return n, nil
	}

	ids, err := s.store.StaleSearchIDs(ctx)
	if err != nil {
		return 0, statusError(err)
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(reindexWorkers)
	for _, id := range ids {
		id := id
		p.Go(func(ctx context.Context) error {
			return s.store.RefreshSearchVector(ctx, id)
		})
	}
	if err := p.Wait(); err != nil {
		return 0, statusError(err)
	}
	s.log.Info("incremental reindex complete", "tasks", len(ids))
	return int64(len(ids)), nil
}
