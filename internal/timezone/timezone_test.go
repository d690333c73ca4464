package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("").String())
	assert.Equal(t, DefaultTimezone, Location("Mars/Olympus").String())
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
}

func TestParseDateTimeUsesClinicZone(t *testing.T) {
	got, err := ParseDateTime("UTC", "2026-10-19", "09:30")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC), got)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), StartOfDay(got))
}
