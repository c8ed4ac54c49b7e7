// Package domain models Met Éireann severe-weather warning data.
//
// # Data Source
//
// Warnings come from the Met Éireann open data endpoint
// https://www.met.ie/Open_Data/json/warning_IRELAND.json, a plain JSON
// array of warning objects with no authentication. The feed is treated as
// untrusted, partial input: every field may be missing, and individual
// records may be malformed without invalidating the batch.
//
// # Feed Conventions
//
// Levels:
//
//	"Yellow", "Orange", "Red" in arbitrary case. Anything else (including
//	a missing level) normalizes to the "unknown" sentinel, which still
//	counts toward active totals but ranks below all named levels.
//
// Regions:
//
//	An array of EMMA region codes, e.g. "EI07" = Dublin. The feed has also
//	been observed carrying plain county names; unrecognized entries are
//	kept verbatim. An empty array means the warning covers all of Ireland,
//	which is why empty defaults to a single "Ireland" entry at
//	presentation time only. See [RegionName] for the code table.
//
// Timestamps:
//
//	"issued", "updated", "onset" and "expiry" are ISO-8601 strings.
//	The field is named "expiry" upstream; we expose it as "expires".
//	A timestamp that fails to parse degrades to absent rather than
//	dropping the record: a warning with bad dates is deliberately treated
//	as always in effect (fail-open) so incomplete upstream data cannot
//	silently hide a genuine warning.
//
// Text fields:
//
//	"headline" and "description" may contain the HTML entities &gt;, &lt;
//	and &amp;. Exactly those three are decoded, in that order, so the
//	literal sequence "&amp;lt;" unescapes once to "&lt;" and not twice
//	to "<". No general HTML unescape is applied.
//
// # Activity
//
// A warning is active at instant t when issued is absent or <= t AND
// expiry is absent or > t. expiry == t counts as expired. [IsActive]
// implements this.
//
// # Identity
//
// Warning IDs are taken from the feed, not generated: downstream
// consumers use them as notification deduplication tags, so they must be
// stable across polls. Within one snapshot duplicate IDs are dropped
// first-wins during normalization. The upstream provider does not
// document whether an updated warning keeps its ID, so no cross-poll
// identity guarantee beyond the raw value is assumed.
package domain
