// Command genmock writes mock warning-feed fixtures: a raw feed snapshot
// in the met.ie wire shape, and the derived per-group sensor states for a
// set of area groups. It runs the actual domain pipeline with a frozen
// clock so the derived fixture matches real behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -raw-out data/mock/warning_IRELAND.json \
//	  -derived-out data/mock/derived_states.json \
//	  -groups "ireland=*;dublin=Dublin;munster=munster"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/eireweather/met-warnings-service/internal/domain"
)

// frozenNow is the reference instant for the fixture: warnings are issued
// and expire relative to it so activity evaluation is reproducible.
var frozenNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rawOut := flag.String("raw-out", "", "output path for the raw feed fixture")
	derivedOut := flag.String("derived-out", "", "output path for the derived state fixture")
	groupsFlag := flag.String("groups", "ireland=*", "semicolon-separated name=selector area groups")
	flag.Parse()

	if *rawOut == "" || *derivedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -derived-out")
	}

	groups, err := parseGroups(*groupsFlag)
	if err != nil {
		return err
	}

	domain.SetClock(clockwork.NewFakeClockAt(frozenNow))
	defer domain.SetClock(nil)

	raws := mockFeed()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	warnings := domain.Normalize(raws, logger)

	states := make([]domain.DerivedSensorState, 0, len(groups))
	for _, g := range groups {
		matched := domain.FilterByGroup(warnings, g)
		active := domain.ActiveWarnings(matched, frozenNow)
		states = append(states, domain.BuildSensorState(g, active))
	}

	if err := writeJSON(*rawOut, raws); err != nil {
		return err
	}
	if err := writeJSON(*derivedOut, states); err != nil {
		return err
	}

	log.Printf("wrote %d raw warnings, %d group states", len(raws), len(states))
	return nil
}

// mockFeed builds a representative snapshot: active county warnings at
// each level, a nationwide warning with no regions, a not-yet-active
// warning, an expired one, and records exercising entity decoding and
// missing fields.
func mockFeed() []domain.RawWarning {
	iso := func(t time.Time) string { return t.Format(time.RFC3339) }
	return []domain.RawWarning{
		{
			ID:          "2026-0101",
			CapID:       "2.49.0.1.372.0.260115120000.001",
			Type:        "Wind",
			Level:       "Orange",
			Severity:    "Moderate",
			Certainty:   "Likely",
			Status:      "Warning",
			Headline:    "Wind warning for Dublin &amp; Wicklow",
			Description: "Gusts &gt;110 km/h expected near the coast",
			Regions:     []string{"EI07", "EI31"},
			Issued:      iso(frozenNow.Add(-6 * time.Hour)),
			Onset:       iso(frozenNow.Add(-2 * time.Hour)),
			Expiry:      iso(frozenNow.Add(12 * time.Hour)),
		},
		{
			ID:          "2026-0102",
			Type:        "Rain",
			Level:       "Yellow",
			Status:      "Warning",
			Headline:    "Rain warning for Munster",
			Description: "Heavy rain with localised flooding",
			Regions:     []string{"EI04", "EI11", "EI16"},
			Issued:      iso(frozenNow.Add(-3 * time.Hour)),
			Expiry:      iso(frozenNow.Add(9 * time.Hour)),
		},
		{
			ID:          "2026-0103",
			Type:        "Storm",
			Level:       "Red",
			Status:      "Warning",
			Headline:    "Status Red storm warning",
			Description: "Violent storm force winds nationwide",
			Regions:     nil, // nationwide, no region list
			Issued:      iso(frozenNow.Add(-1 * time.Hour)),
			Expiry:      iso(frozenNow.Add(6 * time.Hour)),
		},
		{
			ID:      "2026-0104",
			Type:    "Snow/Ice",
			Level:   "Yellow",
			Status:  "Warning",
			Regions: []string{"EI06"},
			Issued:  iso(frozenNow.Add(18 * time.Hour)), // not yet in effect
			Expiry:  iso(frozenNow.Add(36 * time.Hour)),
		},
		{
			ID:      "2026-0105",
			Type:    "Fog",
			Level:   "Yellow",
			Status:  "Expired",
			Regions: []string{"EI21"},
			Issued:  iso(frozenNow.Add(-24 * time.Hour)),
			Expiry:  iso(frozenNow.Add(-12 * time.Hour)), // already over
		},
		{
			// Defective record: no id, dropped during normalization.
			Type:    "Thunderstorm",
			Level:   "Yellow",
			Regions: []string{"EI10"},
		},
	}
}

func parseGroups(value string) ([]domain.AreaGroup, error) {
	var groups []domain.AreaGroup
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, selector, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -groups entry %q (want name=selector)", entry)
		}
		g, err := domain.NewAreaGroup(strings.TrimSpace(name), selector)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("-groups selects no area groups")
	}
	return groups, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
