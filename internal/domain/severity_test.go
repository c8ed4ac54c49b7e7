package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighestLevel(t *testing.T) {
	byLevels := func(levels ...Level) []Warning {
		ws := make([]Warning, len(levels))
		for i, l := range levels {
			ws[i] = Warning{Level: l}
		}
		return ws
	}

	tests := []struct {
		name     string
		warnings []Warning
		expected Level
	}{
		{"empty set is none", nil, LevelNone},
		{"single yellow", byLevels(LevelYellow), LevelYellow},
		{"red beats orange", byLevels(LevelRed, LevelOrange), LevelRed},
		{"orange beats yellow", byLevels(LevelYellow, LevelOrange), LevelOrange},
		{"yellow beats unknown", byLevels(LevelYellow, LevelUnknown), LevelYellow},
		{"unknown alone ranks above none", byLevels(LevelUnknown), LevelUnknown},
		{"order independent", byLevels(LevelYellow, LevelRed, LevelOrange), LevelRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HighestLevel(tt.warnings))
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	// The ordinal values carry the severity ranking; derived state and
	// metrics depend on this order.
	assert.True(t, LevelRed > LevelOrange)
	assert.True(t, LevelOrange > LevelYellow)
	assert.True(t, LevelYellow > LevelUnknown)
	assert.True(t, LevelUnknown > LevelNone)
}

func TestLevelPresentation(t *testing.T) {
	assert.Equal(t, "red", LevelRed.String())
	assert.Equal(t, "none", LevelNone.String())
	assert.Equal(t, 3, LevelRed.Priority())
	assert.Equal(t, 0, LevelUnknown.Priority())
	assert.Equal(t, "#fbc02d", LevelYellow.Color())
	assert.Empty(t, LevelNone.Color())
	assert.Equal(t, "mdi:alert", LevelOrange.Icon())
	assert.Equal(t, "mdi:weather-sunny", LevelNone.Icon())
}

func TestLevelJSONRoundTrip(t *testing.T) {
	for _, l := range []Level{LevelNone, LevelUnknown, LevelYellow, LevelOrange, LevelRed} {
		data, err := l.MarshalJSON()
		assert.NoError(t, err)

		var back Level
		assert.NoError(t, back.UnmarshalJSON(data))
		assert.Equal(t, l, back)
	}
}
