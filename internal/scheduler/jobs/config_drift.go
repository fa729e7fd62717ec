package jobs

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/marcovc/services/internal/selectionconfig"
	"github.com/marcovc/services/pkg/logger"
)

// ConfigDriftJob warns when the selection config file no longer matches the
// config the process started with. Strategies are fixed at startup, so a
// changed file only takes effect after a restart.
type ConfigDriftJob struct {
	path    string
	running string // hash of the active config
	logger  *logger.Logger

	drifted atomic.Bool
}

func NewConfigDriftJob(path string, active *selectionconfig.Config, log *logger.Logger) (*ConfigDriftJob, error) {
	hash, err := selectionconfig.Hash(active)
	if err != nil {
		return nil, fmt.Errorf("failed to hash active config: %w", err)
	}
	return &ConfigDriftJob{path: path, running: hash, logger: log}, nil
}

func (j *ConfigDriftJob) Name() string {
	return "selection_config_drift"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *ConfigDriftJob) Schedule() string {
	return "0 */5 * * * *"
}

// Drifted reports whether the last run found a different config on disk
func (j *ConfigDriftJob) Drifted() bool {
	return j.drifted.Load()
}

func (j *ConfigDriftJob) Run(ctx context.Context) error {
	cfg, _, err := selectionconfig.Load(j.path)
	if err != nil {
		// 잘못된 파일은 재시작 시 실패하므로 지금 알린다
		return fmt.Errorf("selection config on disk is unusable: %w", err)
	}

	hash, err := selectionconfig.Hash(cfg)
	if err != nil {
		return err
	}

	j.drifted.Store(hash != j.running)
	if j.drifted.Load() {
		j.logger.WithFields(map[string]interface{}{
			"path":    j.path,
			"running": j.running[:12],
			"on_disk": hash[:12],
		}).Warn("Selection config changed on disk, restart to apply")
	}

	return nil
}
