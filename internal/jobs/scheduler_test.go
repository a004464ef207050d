package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The cron service must come up even when the logger service was left
// out of the sequence, leaving the global logger unset.
func TestCronServiceStartsWithoutGlobalLogger(t *testing.T) {
	svc := NewCronService(map[string]interface{}{
		"sweep_schedule": "0 3 * * *",
		"retention_days": 7,
		"timezone":       "Indian/Comoro",
	}, nil)

	require.NotPanics(t, func() {
		assert.NoError(t, svc.Start())
	})
	assert.NoError(t, svc.Stop())
}

func TestCronServiceRejectsBadSchedule(t *testing.T) {
	svc := NewCronService(map[string]interface{}{
		"sweep_schedule": "not a schedule",
	}, nil)
	assert.Error(t, svc.Start())
}
