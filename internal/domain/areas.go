package domain

import (
	"fmt"
	"sort"
	"strings"
)

// regionCodes maps EMMA region codes used by the warnings feed to county
// display names. Only codes for the Republic of Ireland appear in the feed.
var regionCodes = map[string]string{
	"EI01": "Carlow",
	"EI02": "Cavan",
	"EI03": "Clare",
	"EI04": "Cork",
	"EI06": "Donegal",
	"EI07": "Dublin",
	"EI10": "Galway",
	"EI11": "Kerry",
	"EI12": "Kildare",
	"EI13": "Kilkenny",
	"EI14": "Leitrim",
	"EI15": "Laois",
	"EI16": "Limerick",
	"EI18": "Longford",
	"EI19": "Louth",
	"EI20": "Mayo",
	"EI21": "Meath",
	"EI22": "Monaghan",
	"EI23": "Offaly",
	"EI24": "Roscommon",
	"EI25": "Sligo",
	"EI26": "Tipperary",
	"EI27": "Waterford",
	"EI29": "Westmeath",
	"EI30": "Wexford",
	"EI31": "Wicklow",
}

// provinceCounties maps each province to its counties (Republic only),
// so an AreaGroup can be configured at province granularity.
var provinceCounties = map[string][]string{
	"connacht": {"Galway", "Mayo", "Roscommon", "Sligo", "Leitrim"},
	"leinster": {
		"Dublin", "Wicklow", "Wexford", "Carlow", "Kilkenny", "Laois",
		"Longford", "Louth", "Meath", "Offaly", "Westmeath", "Kildare",
	},
	"munster": {"Cork", "Kerry", "Limerick", "Tipperary", "Waterford", "Clare"},
	"ulster":  {"Cavan", "Donegal", "Monaghan"},
}

// knownCounties is the lowercase set of valid county names, derived from
// the province table at init.
var knownCounties = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, counties := range provinceCounties {
		for _, c := range counties {
			set[strings.ToLower(c)] = struct{}{}
		}
	}
	return set
}()

// RegionName resolves an EMMA region code to its county display name.
// Unknown codes are returned verbatim so feed additions degrade gracefully.
func RegionName(code string) string {
	if name, ok := regionCodes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// normalizeToken lowercases and trims a matcher or level token.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AreaGroup is a named, immutable region selection driving one set of
// derived sensors. The name is opaque to the core; only the matcher set
// is interpreted.
type AreaGroup struct {
	Name string

	matchers map[string]struct{} // lowercase county names
	matchAll bool
}

// NewAreaGroup builds a group from a selector: "*" for all of Ireland,
// or a comma-separated mix of county and province names. Provinces expand
// to their counties. Unknown names are a configuration error.
func NewAreaGroup(name, selector string) (AreaGroup, error) {
	g := AreaGroup{Name: name, matchers: make(map[string]struct{})}

	if strings.TrimSpace(selector) == "*" {
		g.matchAll = true
		return g, nil
	}

	for _, token := range strings.Split(selector, ",") {
		token = normalizeToken(token)
		if token == "" {
			continue
		}
		if counties, ok := provinceCounties[token]; ok {
			for _, c := range counties {
				g.matchers[strings.ToLower(c)] = struct{}{}
			}
			continue
		}
		if _, ok := knownCounties[token]; ok {
			g.matchers[token] = struct{}{}
			continue
		}
		return AreaGroup{}, fmt.Errorf("area group %q: unknown county or province %q", name, token)
	}

	if len(g.matchers) == 0 {
		return AreaGroup{}, fmt.Errorf("area group %q: no areas selected", name)
	}
	return g, nil
}

// MatchAll reports whether the group is the all-Ireland wildcard.
func (g AreaGroup) MatchAll() bool { return g.matchAll }

// Counties returns the sorted county names the group matches, empty for
// the wildcard. Used for diagnostics and config logging only.
func (g AreaGroup) Counties() []string {
	if g.matchAll {
		return nil
	}
	counties := make([]string, 0, len(g.matchers))
	for c := range g.matchers {
		counties = append(counties, c)
	}
	sort.Strings(counties)
	return counties
}

// Matches reports whether a warning is relevant to the group: the
// wildcard matches every warning (including region-less nationwide ones),
// otherwise any region must equal a matcher, case-insensitively.
func (g AreaGroup) Matches(w Warning) bool {
	if g.matchAll {
		return true
	}
	for _, region := range w.Regions {
		if _, ok := g.matchers[normalizeToken(region)]; ok {
			return true
		}
	}
	return false
}

// FilterByGroup returns the warnings relevant to the group, preserving
// feed order.
func FilterByGroup(warnings []Warning, group AreaGroup) []Warning {
	matched := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		if group.Matches(w) {
			matched = append(matched, w)
		}
	}
	return matched
}
