package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/pkg/clock"
	"github.com/marcovc/services/pkg/logger"
)

// SelectionRetentionJob deletes stored selections older than the retention window
type SelectionRetentionJob struct {
	repo      contracts.SelectionRepository
	retention time.Duration
	clock     clock.Clock
	logger    *logger.Logger
}

func NewSelectionRetentionJob(repo contracts.SelectionRepository, retention time.Duration, clk clock.Clock, log *logger.Logger) *SelectionRetentionJob {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &SelectionRetentionJob{
		repo:      repo,
		retention: retention,
		clock:     clk,
		logger:    log,
	}
}

func (j *SelectionRetentionJob) Name() string {
	return "selection_retention"
}

// Schedule returns the cron schedule (hourly, on the hour)
func (j *SelectionRetentionJob) Schedule() string {
	return "0 0 * * * *"
}

func (j *SelectionRetentionJob) Run(ctx context.Context) error {
	if j.retention <= 0 {
		return nil // 0 = 무기한 보관
	}

	cutoff := j.clock.Now().Add(-j.retention)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete selections before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	if deleted > 0 {
		j.logger.WithFields(map[string]interface{}{
			"deleted": deleted,
			"cutoff":  cutoff,
		}).Info("Old selections deleted")
	}

	return nil
}
