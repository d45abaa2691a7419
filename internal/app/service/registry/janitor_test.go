package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/pkg/config"
)

func TestJanitor_RunOncePrunesAndReportsStuck(t *testing.T) {
	reg := newTestRegistry(t)
	base := time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return base }

	_, _ = reg.Register("done", Metadata{})
	_, _ = reg.Register("stuck", Metadata{})
	_, err := reg.Resolve("done", completed("R"))
	require.NoError(t, err)

	cfg := &config.Config{Registry: config.RegistryConfig{
		Retention:     24 * time.Hour,
		PruneInterval: time.Hour,
		StuckAfter:    5 * time.Minute,
	}}
	j := NewJanitor(reg, zap.NewNop().Sugar(), cfg)
	j.now = func() time.Time { return base.Add(25 * time.Hour) }

	pruned, stuck := j.RunOnce()
	require.Equal(t, 1, pruned)
	require.Len(t, stuck, 1)
	require.Equal(t, "stuck", stuck[0].CorrelationID)
}
