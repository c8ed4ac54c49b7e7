package domain

import (
	"encoding/json"
	"time"
)

// RawWarning mirrors one entry of the met.ie warnings feed as fetched.
// Every field is optional from our perspective; the feed is treated as
// untrusted, partial input.
type RawWarning struct {
	ID          string   `json:"id"`
	CapID       string   `json:"capId"`
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Certainty   string   `json:"certainty"`
	Urgency     string   `json:"urgency"`
	Status      string   `json:"status"`
	Level       string   `json:"level"`
	Issued      string   `json:"issued"`
	Updated     string   `json:"updated"`
	Onset       string   `json:"onset"`
	Expiry      string   `json:"expiry"` // the feed says "expiry", we expose "expires"
	Headline    string   `json:"headline"`
	Description string   `json:"description"`
	Instruction string   `json:"instruction"`
	Regions     []string `json:"regions"`
}

// Warning is the canonical in-memory representation after normalization.
// Text fields are entity-decoded and defaulted; region codes are resolved
// to county names. Issued/Expires keep both the raw feed string and the
// parsed instant, so an absent timestamp (empty raw, nil parsed) stays
// distinguishable from an unparseable one (non-empty raw, nil parsed).
type Warning struct {
	ID          string   `json:"id"`
	CapID       string   `json:"cap_id,omitempty"`
	Type        string   `json:"type"`
	Level       Level    `json:"level"`
	Severity    string   `json:"severity,omitempty"`
	Certainty   string   `json:"certainty,omitempty"`
	Urgency     string   `json:"urgency,omitempty"`
	Status      string   `json:"status,omitempty"`
	Headline    string   `json:"headline"`
	Description string   `json:"description"`
	Instruction string   `json:"instruction,omitempty"`
	Regions     []string `json:"regions"`
	RegionCodes []string `json:"region_codes,omitempty"`
	Issued      string   `json:"issued,omitempty"`
	Updated     string   `json:"updated,omitempty"`
	Onset       string   `json:"onset,omitempty"`
	Expires     string   `json:"expires,omitempty"`

	IssuedAt  *time.Time `json:"-"`
	ExpiresAt *time.Time `json:"-"`
}

// DerivedSensorState is the per-AreaGroup output of one poll cycle:
// the three derived sensor values plus the aggregates the original
// sensor surface exposed. Rebuilt wholesale every cycle.
type DerivedSensorState struct {
	Group           string    `json:"group"`
	ActiveCount     int       `json:"active_warnings_count"`
	Warnings        []Warning `json:"warnings"`
	HighestLevel    Level     `json:"highest_level"`
	WarningTypes    []string  `json:"warning_types"`
	RegionsAffected []string  `json:"regions_affected"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Level is a warning severity token with a fixed total order:
// red > orange > yellow > unknown > none.
type Level int

const (
	LevelNone Level = iota
	LevelUnknown
	LevelYellow
	LevelOrange
	LevelRed
)

// ParseLevel normalizes a feed level token. Anything outside the known
// set (including the empty string) maps to LevelUnknown, never an error.
func ParseLevel(s string) Level {
	switch normalizeToken(s) {
	case "yellow":
		return LevelYellow
	case "orange":
		return LevelOrange
	case "red":
		return LevelRed
	default:
		return LevelUnknown
	}
}

func (l Level) String() string {
	switch l {
	case LevelYellow:
		return "yellow"
	case LevelOrange:
		return "orange"
	case LevelRed:
		return "red"
	case LevelUnknown:
		return "unknown"
	default:
		return "none"
	}
}

// Priority is the numeric rank used by dashboards: red=3, orange=2,
// yellow=1, everything else 0. Matches the feed publisher's convention.
func (l Level) Priority() int {
	switch l {
	case LevelRed:
		return 3
	case LevelOrange:
		return 2
	case LevelYellow:
		return 1
	default:
		return 0
	}
}

// Color returns the display hex color for the level, or "" when the
// level has no official color.
func (l Level) Color() string {
	switch l {
	case LevelRed:
		return "#d32f2f"
	case LevelOrange:
		return "#f57c00"
	case LevelYellow:
		return "#fbc02d"
	default:
		return ""
	}
}

// Icon returns the Material Design icon name consumers render for the level.
func (l Level) Icon() string {
	switch l {
	case LevelRed:
		return "mdi:alert-octagon"
	case LevelOrange:
		return "mdi:alert"
	case LevelYellow:
		return "mdi:alert-outline"
	case LevelUnknown:
		return "mdi:alert-circle-outline"
	default:
		return "mdi:weather-sunny"
	}
}

// MarshalJSON serializes a Level as its token string.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON parses a token string back into a Level. "none" round-trips;
// unrecognized tokens degrade to LevelUnknown like ParseLevel.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if normalizeToken(s) == "none" {
		*l = LevelNone
		return nil
	}
	*l = ParseLevel(s)
	return nil
}
