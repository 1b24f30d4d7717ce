package inequality

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Analyze(t *testing.T) {
	service := NewService(zerolog.New(nil).Level(zerolog.Disabled))

	set, err := NewAllocationSet([]string{"low", "mid", "high"}, []float64{10, 30, 60})
	require.NoError(t, err)

	summary, err := service.Analyze(set, true)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 100.0, summary.Total, 1e-12)
	assert.Len(t, summary.Shares, 3)
	assert.Len(t, summary.Lorenz, 4)
	assert.True(t, summary.LorenzSorted)
	assert.InDelta(t, summary.Gini, summary.GiniClosedForm, 1e-12)
	assert.InDelta(t, 1.0/3.0, summary.Gini, 1e-12)
}

func TestService_Analyze_InvalidInputReturnsNoSummary(t *testing.T) {
	service := NewService(zerolog.New(nil).Level(zerolog.Disabled))

	summary, err := service.Analyze(FromAmounts(0, 0), true)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, summary)
}

func TestService_Analyze_LogsDebugLine(t *testing.T) {
	var buf bytes.Buffer
	service := NewService(zerolog.New(&buf).Level(zerolog.DebugLevel))

	_, err := service.Analyze(FromAmounts(1, 2, 3), false)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Allocation analyzed")
	assert.Contains(t, buf.String(), `"service":"inequality"`)
	assert.NotContains(t, buf.String(), "Gini forms disagree")
}
