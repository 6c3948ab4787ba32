package engine_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ageflow/internal/engine"
)

func TestBuildCalendar_ThreeYears(t *testing.T) {
	birth := time.Date(1990, 7, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	data, err := engine.BuildCalendar(birth, now)
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "SUMMARY:Birthday (34)")
	assert.Contains(t, ics, "SUMMARY:Birthday (35)")
	assert.Contains(t, ics, "SUMMARY:Birthday (36)")
	assert.Contains(t, ics, "20250714")
}

func TestBuildCalendar_BornLastYear(t *testing.T) {
	birth := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	data, err := engine.BuildCalendar(birth, now)
	require.NoError(t, err)

	ics := string(data)
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"), "no event before the birth year")
	assert.Contains(t, ics, "SUMMARY:Birthday (birth)")
	assert.Contains(t, ics, "SUMMARY:Birthday (1)")
}

func TestBuildCalendar_FutureBirthYieldsStub(t *testing.T) {
	birth := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	data, err := engine.BuildCalendar(birth, now)
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.NotContains(t, ics, "BEGIN:VEVENT")
}

func TestBuildCalendar_Leapling(t *testing.T) {
	birth := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	data, err := engine.BuildCalendar(birth, now)
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "20250301", "Feb 29 falls on March 1st in a non-leap year")
	assert.Contains(t, ics, "20240229")
}
