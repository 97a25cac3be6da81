package chrono

import (
	"brickprices/internal/components/telemetry"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCronRejectsBadSpec(t *testing.T) {
	cron := NewStandardCron(telemetry.NewRecordingAPI(), NewStandardImpl(nil))
	defer cron.Stop()

	err := cron.Cron("not a cron spec", func() {})
	require.Error(t, err)

	err = cron.Cron("@every 1h", func() {})
	require.NoError(t, err)
}

func TestFixedImpl(t *testing.T) {
	at := time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC)
	fixed := FixedImpl{At: at}
	require.Equal(t, at, fixed.Now())
	require.Equal(t, time.UTC, fixed.Location())
	require.Equal(t, time.UTC, NewStandardImpl(nil).Location())
}
