package commands

import (
	"fmt"

	"github.com/marcovc/services/internal/selection"
	"github.com/marcovc/services/internal/selectionconfig"
	"github.com/marcovc/services/pkg/logger"
)

// resolveSelectionPath prefers the flag over the environment value
func resolveSelectionPath(fromEnv string) string {
	if selectionConfig != "" {
		return selectionConfig
	}
	return fromEnv
}

// loadSelection loads the selection config and builds its strategies.
// Config warnings are logged, not returned.
func loadSelection(path string, log *logger.Logger) (*selectionconfig.Config, []selection.Strategy, error) {
	cfg, err := selectionconfig.LoadOrDefault(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load selection config: %w", err)
	}

	for _, w := range selectionconfig.Warn(cfg) {
		log.WithFields(map[string]interface{}{
			"code": w.Code,
			"path": path,
		}).Warn(w.Message)
	}

	strategies, err := selection.Build(cfg.Selection.Strategies)
	if err != nil {
		return nil, nil, fmt.Errorf("build strategies: %w", err)
	}

	return cfg, strategies, nil
}
