package incidents

import (
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

var reportedAtPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{6}Z$`)

func ids(list []Incident) []string {
	out := make([]string, len(list))
	for i, inc := range list {
		out[i] = inc.ID
	}
	return out
}

func TestNewStoreSeedsDataset(t *testing.T) {
	s := NewStore()
	if s.Len() != 10 {
		t.Fatalf("expected 10 seeded incidents, got %d", s.Len())
	}
	if f := s.Filter(); f != DefaultFilter() {
		t.Fatalf("unexpected default filter: %+v", f)
	}
	for _, inc := range s.Visible() {
		if inc.IsExpanded {
			t.Fatalf("incident %s should start collapsed", inc.ID)
		}
		if !reportedAtPattern.MatchString(inc.ReportedAt) {
			t.Fatalf("incident %s has unexpected reported_at %q", inc.ID, inc.ReportedAt)
		}
	}
}

func TestStoresAreIndependent(t *testing.T) {
	a := NewStore()
	b := NewStore()
	a.ToggleExpansion("1")
	a.SetFilter(FilterState{Severity: SeverityHigh, SortDirection: SortOldest})

	inc, _ := b.Get("1")
	if inc.IsExpanded {
		t.Fatalf("toggle on one store leaked into another")
	}
	if b.Filter() != DefaultFilter() {
		t.Fatalf("filter on one store leaked into another")
	}
}

func TestVisibleDefaultOrderNewestFirst(t *testing.T) {
	s := NewStore()
	want := []string{"8", "5", "9", "2", "7", "4", "10", "6", "3", "1"}
	if got := ids(s.Visible()); !reflect.DeepEqual(got, want) {
		t.Fatalf("newest order mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestVisibleOldestFirst(t *testing.T) {
	s := NewStore()
	s.SetFilter(FilterState{Severity: SeverityAll, SortDirection: SortOldest})
	want := []string{"1", "3", "6", "10", "4", "7", "2", "9", "5", "8"}
	if got := ids(s.Visible()); !reflect.DeepEqual(got, want) {
		t.Fatalf("oldest order mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestVisibleFiltersBySeverity(t *testing.T) {
	s := NewStore()
	counts := map[Severity]int{SeverityLow: 2, SeverityMedium: 3, SeverityHigh: 5}
	for sev, want := range counts {
		for _, dir := range []SortDirection{SortNewest, SortOldest} {
			s.SetFilter(FilterState{Severity: sev, SortDirection: dir})
			got := s.Visible()
			if len(got) != want {
				t.Fatalf("%s/%s: expected %d incidents, got %d", sev, dir, want, len(got))
			}
			for _, inc := range got {
				if inc.Severity != sev {
					t.Fatalf("%s filter returned %s incident %s", sev, inc.Severity, inc.ID)
				}
			}
		}
	}
	s.SetFilter(FilterState{Severity: SeverityAll, SortDirection: SortNewest})
	if got := len(s.Visible()); got != s.Len() {
		t.Fatalf("All filter returned %d of %d incidents", got, s.Len())
	}
}

func TestVisibleIsMonotonic(t *testing.T) {
	s := NewStore()
	for _, dir := range []SortDirection{SortNewest, SortOldest} {
		s.SetFilter(FilterState{Severity: SeverityAll, SortDirection: dir})
		list := s.Visible()
		for i := 1; i < len(list); i++ {
			prev, _ := ParseReportedAt(list[i-1].ReportedAt)
			cur, _ := ParseReportedAt(list[i].ReportedAt)
			if dir == SortNewest && cur.After(prev) {
				t.Fatalf("newest order broken at %d: %s after %s", i, cur, prev)
			}
			if dir == SortOldest && cur.Before(prev) {
				t.Fatalf("oldest order broken at %d: %s before %s", i, cur, prev)
			}
		}
	}
}

func TestVisibleStableOnTies(t *testing.T) {
	seed := []Incident{
		{ID: "a", Title: "a", Severity: SeverityLow, ReportedAt: "2025-01-01T000000Z"},
		{ID: "b", Title: "b", Severity: SeverityLow, ReportedAt: "2025-01-01T000000Z"},
		{ID: "c", Title: "c", Severity: SeverityLow, ReportedAt: "2025-01-01T000000Z"},
	}
	s := NewStore(WithSeed(seed))
	for _, dir := range []SortDirection{SortNewest, SortOldest} {
		s.SetFilter(FilterState{Severity: SeverityAll, SortDirection: dir})
		if got := ids(s.Visible()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Fatalf("%s: ties should keep collection order, got %v", dir, got)
		}
	}
}

func TestVisibleReturnsCopies(t *testing.T) {
	s := NewStore()
	list := s.Visible()
	list[0].Title = "mutated"
	list[0].IsExpanded = true
	inc, _ := s.Get(list[0].ID)
	if inc.Title == "mutated" || inc.IsExpanded {
		t.Fatalf("Visible leaked internal state")
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	s := NewStore()
	before := s.Visible()

	if !s.ToggleExpansion("4") {
		t.Fatalf("expected toggle to find incident 4")
	}
	inc, _ := s.Get("4")
	if !inc.IsExpanded {
		t.Fatalf("incident 4 should be expanded")
	}
	for _, other := range s.Visible() {
		if other.ID != "4" && other.IsExpanded {
			t.Fatalf("incident %s changed on toggle of 4", other.ID)
		}
	}

	s.ToggleExpansion("4")
	if after := s.Visible(); !reflect.DeepEqual(before, after) {
		t.Fatalf("double toggle did not restore state")
	}
}

func TestToggleUnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	s.ToggleExpansion("2")
	before := s.Visible()

	if s.ToggleExpansion("does-not-exist") {
		t.Fatalf("toggle of unknown id reported a match")
	}
	if after := s.Visible(); !reflect.DeepEqual(before, after) {
		t.Fatalf("toggle of unknown id changed the collection")
	}
}

func TestAddProducesWellFormedIncident(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 10, 19, 8, 5, 9, 123456789, time.FixedZone("CEST", 2*3600))}
	s := NewStore(WithClock(clock))
	before := s.Visible()

	inc, err := s.Add(NewIncident{Title: "T", Description: "D", Severity: SeverityHigh})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.Len() != len(before)+1 {
		t.Fatalf("expected collection to grow by one, got %d", s.Len())
	}
	if inc.IsExpanded || inc.Severity != SeverityHigh || inc.Title != "T" || inc.Description != "D" {
		t.Fatalf("unexpected incident: %+v", inc)
	}
	for _, old := range before {
		if old.ID == inc.ID {
			t.Fatalf("new id %s collides with existing incident", inc.ID)
		}
	}
	if inc.ReportedAt != "2026-10-19T060509Z" {
		t.Fatalf("unexpected reported_at %q", inc.ReportedAt)
	}
	if !reportedAtPattern.MatchString(inc.ReportedAt) {
		t.Fatalf("reported_at %q does not match layout", inc.ReportedAt)
	}
}

func TestAddSortsAsNewest(t *testing.T) {
	s := NewStore()
	inc, err := s.Add(NewIncident{Title: "T", Description: "D", Severity: SeverityLow})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	list := s.Visible()
	if list[0].ID != inc.ID {
		t.Fatalf("expected new incident first, got %s", list[0].ID)
	}
}

func TestAddRapidCallsYieldUniqueIDs(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(WithClock(clock))

	seen := map[string]bool{}
	var last Incident
	for i := 0; i < 50; i++ {
		inc, err := s.Add(NewIncident{Title: "T", Description: "D", Severity: SeverityMedium})
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if seen[inc.ID] {
			t.Fatalf("duplicate id %s on call %d", inc.ID, i)
		}
		seen[inc.ID] = true
		last = inc
	}
	// identical timestamps: the most recently created one still leads
	if got := s.Visible()[0].ID; got != last.ID {
		t.Fatalf("expected last created incident first, got %s want %s", got, last.ID)
	}
}

func TestAddSkipsSeededIDs(t *testing.T) {
	clock := &fixedClock{now: time.UnixMilli(7)}
	seed := []Incident{
		{ID: "7", Title: "x", Severity: SeverityLow, ReportedAt: "2025-01-01T000000Z"},
		{ID: "8", Title: "y", Severity: SeverityLow, ReportedAt: "2025-01-01T000000Z"},
	}
	s := NewStore(WithClock(clock), WithSeed(seed))
	inc, err := s.Add(NewIncident{Title: "T", Description: "D", Severity: SeverityLow})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if inc.ID != "9" {
		t.Fatalf("expected id 9, got %s", inc.ID)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	s := NewStore()
	cases := []struct {
		name string
		in   NewIncident
		want error
	}{
		{"empty title", NewIncident{Title: "  ", Description: "D", Severity: SeverityLow}, ErrEmptyTitle},
		{"empty description", NewIncident{Title: "T", Description: "", Severity: SeverityLow}, ErrEmptyDescription},
		{"bad severity", NewIncident{Title: "T", Description: "D", Severity: "Critical"}, ErrInvalidSeverity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Add(tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrInvalidIncident) {
				t.Fatalf("expected error to wrap ErrInvalidIncident, got %v", err)
			}
		})
	}
	if s.Len() != 10 {
		t.Fatalf("rejected adds must not change the collection, got %d", s.Len())
	}
}

func TestVisibleMalformedTimestampFallback(t *testing.T) {
	seed := []Incident{
		{ID: "a", Title: "a", Severity: SeverityLow, ReportedAt: "2025-03-15T100000Z"},
		{ID: "bad", Title: "bad", Severity: SeverityLow, ReportedAt: ""},
		{ID: "b", Title: "b", Severity: SeverityLow, ReportedAt: "2025-04-01T143000Z"},
		{ID: "odd", Title: "odd", Severity: SeverityLow, ReportedAt: "2025-13-01T000000Z"},
		{ID: "c", Title: "c", Severity: SeverityLow, ReportedAt: "2025-03-20T091500Z"},
	}
	s := NewStore(WithSeed(seed))

	for _, dir := range []SortDirection{SortNewest, SortOldest} {
		s.SetFilter(FilterState{Severity: SeverityAll, SortDirection: dir})
		list := s.Visible()
		if len(list) != len(seed) {
			t.Fatalf("%s: expected %d incidents, got %d", dir, len(seed), len(list))
		}
		var valid []string
		found := map[string]bool{}
		for _, inc := range list {
			found[inc.ID] = true
			if inc.ID == "a" || inc.ID == "b" || inc.ID == "c" {
				valid = append(valid, inc.ID)
			}
		}
		if !found["bad"] || !found["odd"] {
			t.Fatalf("%s: malformed incidents missing from output: %v", dir, ids(list))
		}
		want := []string{"b", "c", "a"}
		if dir == SortOldest {
			want = []string{"a", "c", "b"}
		}
		if !reflect.DeepEqual(valid, want) {
			t.Fatalf("%s: valid incidents out of order: got %v want %v", dir, valid, want)
		}
	}
}
