// Command validate checks a captured warnings feed snapshot against the
// derived sensor states produced from it: normalization totality, derived
// state correctness per area group, and schema alignment of the published
// attribute surface. Run it after regenerating fixtures with genmock.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw data/mock/warning_IRELAND.json \
//	  -derived data/mock/derived_states.json \
//	  -groups "ireland=*;dublin=Dublin;munster=munster" \
//	  -at 2026-01-15T12:00:00Z
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/eireweather/met-warnings-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawPath := flag.String("raw", "", "path to raw feed snapshot JSON")
	derivedPath := flag.String("derived", "", "path to derived state fixture JSON")
	groupsFlag := flag.String("groups", "ireland=*", "semicolon-separated name=selector area groups")
	atFlag := flag.String("at", "", "RFC 3339 instant to evaluate activity at (default: now)")
	flag.Parse()

	if *rawPath == "" || *derivedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawPath, *derivedPath, *groupsFlag, *atFlag); code != 0 {
		os.Exit(code)
	}
}

func run(rawPath, derivedPath, groupsFlag, atFlag string) int {
	now := time.Now().UTC()
	if atFlag != "" {
		parsed, err := time.Parse(time.RFC3339, atFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: invalid -at: %v\n", err)
			return 1
		}
		now = parsed
	}
	domain.SetClock(clockwork.NewFakeClockAt(now))
	defer domain.SetClock(nil)

	groups, err := parseGroups(groupsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	raws, err := loadJSON[domain.RawWarning](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw snapshot: %v\n", err)
		return 1
	}
	derived, err := loadJSON[domain.DerivedSensorState](derivedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load derived fixture: %v\n", err)
		return 1
	}

	fmt.Println("=== Warning Snapshot Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	warnings := domain.Normalize(raws, logger)

	phases := []*phase{
		validateNormalization(raws, warnings),
		validateDerivation(warnings, groups, derived, now),
		validateSchema(derived),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw, %d normalized, %d group states (evaluated at %s)\n",
		len(raws), len(warnings), len(derived), now.Format(time.RFC3339))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Normalization ──
// Every surviving warning must carry defaults, unique ids, and decoded text.

func validateNormalization(raws []domain.RawWarning, warnings []domain.Warning) *phase {
	p := &phase{name: "Phase 1: Normalization (totality)"}

	withID := 0
	idCounts := map[string]int{}
	for _, raw := range raws {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			continue
		}
		if idCounts[id] == 0 {
			withID++
		}
		idCounts[id]++
	}
	if len(warnings) != withID {
		p.errorf("normalized count: expected %d records with unique ids, got %d", withID, len(warnings))
	}

	seen := map[string]bool{}
	for i, w := range warnings {
		if w.ID == "" {
			p.errorf("warning %d: empty id survived normalization", i)
		}
		if seen[w.ID] {
			p.errorf("warning %d: duplicate id %q survived normalization", i, w.ID)
		}
		seen[w.ID] = true

		if w.Headline == "" || w.Description == "" || w.Type == "" {
			p.errorf("id %s: missing default for headline/description/type", w.ID)
		}
		if strings.Contains(w.Headline, "&gt;") || strings.Contains(w.Description, "&gt;") ||
			strings.Contains(w.Headline, "&lt;") || strings.Contains(w.Description, "&lt;") {
			p.errorf("id %s: undecoded entity in text fields", w.ID)
		}
		if w.Issued == "" && w.IssuedAt != nil {
			p.errorf("id %s: parsed issued instant without a raw value", w.ID)
		}
		if w.Expires == "" && w.ExpiresAt != nil {
			p.errorf("id %s: parsed expires instant without a raw value", w.ID)
		}
	}
	return p
}

// ── Phase 2: Derivation ──
// Re-derives every group's state and compares it to the fixture.

func validateDerivation(warnings []domain.Warning, groups []domain.AreaGroup, derived []domain.DerivedSensorState, now time.Time) *phase {
	p := &phase{name: "Phase 2: Derivation (per area group)"}

	byGroup := map[string]*domain.DerivedSensorState{}
	for i := range derived {
		byGroup[derived[i].Group] = &derived[i]
	}

	for _, g := range groups {
		fixture, ok := byGroup[g.Name]
		if !ok {
			p.errorf("group %q: missing from derived fixture", g.Name)
			continue
		}

		matched := domain.FilterByGroup(warnings, g)
		active := domain.ActiveWarnings(matched, now)
		expected := domain.BuildSensorState(g, active)

		if fixture.ActiveCount != expected.ActiveCount {
			p.errorf("group %q: active count: expected %d, got %d", g.Name, expected.ActiveCount, fixture.ActiveCount)
		}
		if fixture.HighestLevel != expected.HighestLevel {
			p.errorf("group %q: highest level: expected %s, got %s", g.Name, expected.HighestLevel, fixture.HighestLevel)
		}
		if len(fixture.Warnings) != len(expected.Warnings) {
			p.errorf("group %q: warning list length: expected %d, got %d", g.Name, len(expected.Warnings), len(fixture.Warnings))
			continue
		}
		for i := range expected.Warnings {
			if fixture.Warnings[i].ID != expected.Warnings[i].ID {
				p.errorf("group %q: warning %d: expected id %s, got %s (feed order must be preserved)",
					g.Name, i, expected.Warnings[i].ID, fixture.Warnings[i].ID)
			}
		}
	}
	return p
}

// ── Phase 3: Schema ──
// The published attribute surface must stay consistent with itself.

func validateSchema(derived []domain.DerivedSensorState) *phase {
	p := &phase{name: "Phase 3: Schema (published surface)"}

	for _, st := range derived {
		if st.Group == "" {
			p.errorf("state with empty group name")
		}
		if st.ActiveCount != len(st.Warnings) {
			p.errorf("group %q: active_warnings_count %d != len(warnings) %d", st.Group, st.ActiveCount, len(st.Warnings))
		}
		if st.ActiveCount == 0 && st.HighestLevel != domain.LevelNone {
			p.errorf("group %q: empty active set but highest level %s", st.Group, st.HighestLevel)
		}
		if st.GeneratedAt.IsZero() {
			p.errorf("group %q: generated_at is zero", st.Group)
		}
		for _, w := range st.Warnings {
			if len(w.Regions) == 0 {
				p.errorf("group %q: warning %s presented without regions (empty should default to Ireland)", st.Group, w.ID)
			}
		}
	}
	return p
}

// ── Helpers ──

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

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
