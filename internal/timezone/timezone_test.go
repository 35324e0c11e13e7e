package timezone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocation_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("Not/AZone").String())
	assert.Equal(t, DefaultTimezone, Location("").String())
}

func TestLocation_UsesValidZone(t *testing.T) {
	assert.Equal(t, "Europe/Madrid", Location("Europe/Madrid").String())
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("America/Mexico_City"))
	assert.False(t, IsValid("Mars/Olympus"))
	assert.False(t, IsValid(""))
}

func TestParseDate_LocalMidnight(t *testing.T) {
	d, err := ParseDate("America/Mexico_City", "2026-10-19")
	assert.NoError(t, err)
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, "America/Mexico_City", d.Location().String())

	_, err = ParseDate("UTC", "19/10/2026")
	assert.Error(t, err)
}
