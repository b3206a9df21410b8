package incidents

import (
	"fmt"
	"time"
)

// ReportedAtLayout is the colon-less layout every reported_at value uses,
// e.g. 2025-03-15T100000Z. It is not RFC 3339.
const ReportedAtLayout = "2006-01-02T150405Z"

// FormatReportedAt renders t in ReportedAtLayout, in UTC, to the second.
func FormatReportedAt(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(ReportedAtLayout)
}

// ParseReportedAt is the strict counterpart of FormatReportedAt.
func ParseReportedAt(s string) (time.Time, error) {
	_, at, ok := normalizeReportedAt(s)
	if !ok {
		return time.Time{}, fmt.Errorf("parse reported_at %q: unexpected layout", s)
	}
	return at, nil
}

// normalizeReportedAt reinserts the time colons and parses the result.
// A value that does not have the expected shape comes back unchanged with
// ok=false, so ordering falls back to plain string comparison.
func normalizeReportedAt(s string) (key string, at time.Time, ok bool) {
	if !hasReportedAtShape(s) {
		return s, time.Time{}, false
	}
	key = s[:11] + s[11:13] + ":" + s[13:15] + ":" + s[15:17] + "Z"
	at, err := time.Parse(time.RFC3339, key)
	if err != nil {
		return s, time.Time{}, false
	}
	return key, at.UTC(), true
}

func hasReportedAtShape(s string) bool {
	if len(s) != len(ReportedAtLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch i {
		case 4, 7:
			if c != '-' {
				return false
			}
		case 10:
			if c != 'T' {
				return false
			}
		case 17:
			if c != 'Z' {
				return false
			}
		default:
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}

// sortKey is the precomputed comparison key of one reported_at value.
type sortKey struct {
	key string
	at  time.Time
	ok  bool
}

func newSortKey(reportedAt string) sortKey {
	k, at, ok := normalizeReportedAt(reportedAt)
	return sortKey{key: k, at: at, ok: ok}
}

// less orders two keys chronologically. When either side failed to
// normalize the keys are compared as strings; normalized keys are fixed-width
// UTC RFC 3339, so both rules agree on valid values.
func (a sortKey) less(b sortKey) bool {
	if a.ok && b.ok {
		return a.at.Before(b.at)
	}
	return a.key < b.key
}
