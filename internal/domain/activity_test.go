package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(t time.Time) *time.Time { return &t }

func TestIsActive(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		issued  *time.Time
		expires *time.Time
		active  bool
	}{
		{"within window", ts(now.Add(-time.Hour)), ts(now.Add(time.Hour)), true},
		{"both absent is always active", nil, nil, true},
		{"absent issued never blocks", nil, ts(now.Add(time.Hour)), true},
		{"absent expires never blocks", ts(now.Add(-time.Hour)), nil, true},
		{"issued exactly now is active", ts(now), ts(now.Add(time.Hour)), true},
		{"not yet issued", ts(now.Add(time.Minute)), nil, false},
		{"expires exactly now is expired", ts(now.Add(-time.Hour)), ts(now), false},
		{"expires one second later is active", ts(now.Add(-time.Hour)), ts(now.Add(time.Second)), true},
		{"already expired", ts(now.Add(-2 * time.Hour)), ts(now.Add(-time.Hour)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Warning{ID: "w1", IssuedAt: tt.issued, ExpiresAt: tt.expires}
			assert.Equal(t, tt.active, IsActive(w, now))
		})
	}
}

func TestActiveWarnings(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	warnings := []Warning{
		{ID: "current", IssuedAt: ts(now.Add(-time.Hour)), ExpiresAt: ts(now.Add(time.Hour))},
		{ID: "future", IssuedAt: ts(now.Add(time.Hour))},
		{ID: "open-ended"},
		{ID: "expired", ExpiresAt: ts(now.Add(-time.Minute))},
	}

	active := ActiveWarnings(warnings, now)

	assert.Len(t, active, 2)
	assert.Equal(t, "current", active[0].ID)
	assert.Equal(t, "open-ended", active[1].ID)
}
