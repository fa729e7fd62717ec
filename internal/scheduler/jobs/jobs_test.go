package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcovc/services/internal/contracts"
	"github.com/marcovc/services/internal/selectionconfig"
	"github.com/marcovc/services/pkg/clock"
	"github.com/marcovc/services/pkg/logger"
)

type fakeRepo struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeRepo) Save(ctx context.Context, sel *contracts.Selection) error { return nil }

func (f *fakeRepo) Get(ctx context.Context, auctionID int64, solver common.Address) (*contracts.Selection, error) {
	return nil, errors.New("unused")
}

func (f *fakeRepo) Latest(ctx context.Context, auctionID int64) (*contracts.Selection, error) {
	return nil, errors.New("unused")
}

func (f *fakeRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestSelectionRetentionJob(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{deleted: 3}
	job := NewSelectionRetentionJob(repo, 7*24*time.Hour, clock.NewFixed(now), logger.Nop())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, now.AddDate(0, 0, -7), repo.cutoff)
	assert.Equal(t, "selection_retention", job.Name())
}

func TestSelectionRetentionJobDisabled(t *testing.T) {
	repo := &fakeRepo{}
	job := NewSelectionRetentionJob(repo, 0, nil, logger.Nop())

	require.NoError(t, job.Run(context.Background()))
	assert.True(t, repo.cutoff.IsZero(), "repository untouched")
}

func TestSelectionRetentionJobError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	job := NewSelectionRetentionJob(repo, time.Hour, nil, logger.Nop())

	assert.ErrorContains(t, job.Run(context.Background()), "db down")
}

const driftYAML = `meta:
  config_id: test
  version: "1"
selection:
  max_orders: 100
  strategies:
    - type: creation-timestamp
      min_fraction: 0.5
      max_order_age: 10m
`

func TestConfigDriftJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.yaml")
	require.NoError(t, os.WriteFile(path, []byte(driftYAML), 0o600))

	active, _, err := selectionconfig.Load(path)
	require.NoError(t, err)

	job, err := NewConfigDriftJob(path, active, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.False(t, job.Drifted())

	changed := []byte(driftYAML[:len(driftYAML)-len("      max_order_age: 10m\n")])
	require.NoError(t, os.WriteFile(path, changed, 0o600))
	require.NoError(t, job.Run(context.Background()))
	assert.True(t, job.Drifted())

	require.NoError(t, os.WriteFile(path, []byte("selection: [broken"), 0o600))
	assert.ErrorContains(t, job.Run(context.Background()), "unusable")
}
