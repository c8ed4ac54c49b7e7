package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eireweather/met-warnings-service/internal/domain"
)

func TestSerializeState(t *testing.T) {
	generated := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	state := domain.DerivedSensorState{
		Group:        "dublin",
		ActiveCount:  2,
		HighestLevel: domain.LevelOrange,
		WarningTypes: []string{"Wind", "Rain"},
		GeneratedAt:  generated,
	}

	msg, err := serializeState(state)
	require.NoError(t, err)

	assert.Equal(t, []byte("dublin"), msg.Key)

	var decoded domain.DerivedSensorState
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, 2, decoded.ActiveCount)
	assert.Equal(t, domain.LevelOrange, decoded.HighestLevel)
	assert.Equal(t, []string{"Wind", "Rain"}, decoded.WarningTypes)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "orange", headers["highest_level"])
	assert.Equal(t, "2026-01-15T12:00:00Z", headers["generated_at"])
}
