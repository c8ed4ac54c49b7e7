package domain

import (
	"log/slog"
	"strings"
	"time"
)

// Defaults applied to absent free-text fields during normalization.
const (
	DefaultHeadline    = "Weather Warning"
	DefaultDescription = "No description available"
	DefaultWarningType = "Weather"
)

// entities lists the HTML entities decoded in headline and description.
// Order matters: &amp; is decoded last so the literal sequence "&amp;lt;"
// unescapes exactly once, to "&lt;", never twice.
var entities = []struct{ name, literal string }{
	{"&gt;", ">"},
	{"&lt;", "<"},
	{"&amp;", "&"},
}

// timeLayouts are the timestamp shapes observed in the feed. RFC 3339 is
// the documented form; the offset-less variants show up in older records.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalize converts a fetched batch into canonical Warnings. It is total:
// it never fails the batch. Records without an id, and duplicates of an
// already-seen id, are dropped with a logged defect; every surviving
// Warning has a non-empty level, headline, description and type.
func Normalize(raws []RawWarning, logger *slog.Logger) []Warning {
	warnings := make([]Warning, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))

	for i, raw := range raws {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			logger.Warn("dropping warning without id", "index", i, "headline", raw.Headline)
			continue
		}
		if _, dup := seen[id]; dup {
			logger.Warn("dropping duplicate warning id", "id", id)
			continue
		}
		seen[id] = struct{}{}
		warnings = append(warnings, normalizeWarning(id, raw, logger))
	}
	return warnings
}

func normalizeWarning(id string, raw RawWarning, logger *slog.Logger) Warning {
	w := Warning{
		ID:          id,
		CapID:       strings.TrimSpace(raw.CapID),
		Type:        orDefault(raw.Type, DefaultWarningType),
		Level:       ParseLevel(raw.Level),
		Severity:    strings.TrimSpace(raw.Severity),
		Certainty:   strings.TrimSpace(raw.Certainty),
		Urgency:     strings.TrimSpace(raw.Urgency),
		Status:      normalizeToken(raw.Status),
		Headline:    decodeEntities(orDefault(raw.Headline, DefaultHeadline)),
		Description: decodeEntities(orDefault(raw.Description, DefaultDescription)),
		Instruction: strings.TrimSpace(raw.Instruction),
		Updated:     strings.TrimSpace(raw.Updated),
		Onset:       strings.TrimSpace(raw.Onset),
		Issued:      strings.TrimSpace(raw.Issued),
		Expires:     strings.TrimSpace(raw.Expiry),
	}

	w.Regions, w.RegionCodes = resolveRegions(raw.Regions)
	w.IssuedAt = parseInstant(id, "issued", w.Issued, logger)
	w.ExpiresAt = parseInstant(id, "expires", w.Expires, logger)
	return w
}

// resolveRegions maps EMMA codes to county names, keeping the raw entries
// as region codes. Blank entries are discarded; order is preserved.
func resolveRegions(raw []string) (names, codes []string) {
	names = make([]string, 0, len(raw))
	codes = make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		codes = append(codes, r)
		names = append(names, RegionName(r))
	}
	return names, codes
}

// parseInstant parses a feed timestamp. Absent returns nil silently; a
// present but unparseable value also degrades to nil, but with a logged
// defect, keeping the record rather than hiding the warning.
func parseInstant(id, field, value string, logger *slog.Logger) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	logger.Warn("unparseable timestamp, treating as absent", "id", id, "field", field, "value", value)
	return nil
}

func decodeEntities(s string) string {
	for _, e := range entities {
		s = strings.ReplaceAll(s, e.name, e.literal)
	}
	return s
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
