package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

func TestResolveRangeUseCase_Execute(t *testing.T) {
	uc := NewResolveRangeUseCase(newTestResolver(time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)))

	output, err := uc.Execute(ResolveRangeInput{TimeRange: TimeRangeThisWeek})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), output.Current.From)
	assert.Equal(t, output.Current.Shift(-output.Current.Duration()), output.Previous)
	assert.Equal(t, GranularityDay, output.Granularity)

	_, err = uc.Execute(ResolveRangeInput{TimeRange: TimeRangeCustom})
	assert.ErrorIs(t, err, domainerror.ErrMissingRange)
}

func TestParseDateBound(t *testing.T) {
	jerusalem := time.FixedZone("IST", 2*60*60)

	from, err := ParseDateBound("2025-03-01", jerusalem, false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, jerusalem), *from)

	to, err := ParseDateBound("2025-03-31", jerusalem, true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 31, 23, 59, 59, int(999*time.Millisecond), jerusalem), *to)

	exact, err := ParseDateBound("2025-03-05T10:30:00Z", jerusalem, true)
	require.NoError(t, err)
	assert.True(t, exact.Equal(time.Date(2025, time.March, 5, 10, 30, 0, 0, time.UTC)))

	empty, err := ParseDateBound("  ", jerusalem, false)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = ParseDateBound("05/03/2025", jerusalem, false)
	assert.ErrorIs(t, err, domainerror.ErrInvalidDateFormat)
}
