package incidents

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Clock abstracts time.Now so tests can pin the report timestamp.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Option func(*Store)

// WithClock overrides the clock used for ids and reported_at.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithSeed replaces the built-in sample dataset. The slice is copied.
func WithSeed(seed []Incident) Option {
	return func(s *Store) {
		s.incidents = append([]Incident(nil), seed...)
	}
}

// Store owns the incident collection and the active filter. Incidents are
// only ever prepended; IsExpanded is the one field that changes afterwards.
type Store struct {
	mu        sync.RWMutex
	incidents []Incident
	filter    FilterState
	clock     Clock
	lastID    int64
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		incidents: SeedIncidents(),
		filter:    DefaultFilter(),
		clock:     realClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Visible returns the incidents matching the current filter, ordered by
// reported_at. Equal timestamps keep their collection order.
func (s *Store) Visible() []Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]Incident, 0, len(s.incidents))
	keys := make([]sortKey, 0, len(s.incidents))
	for _, inc := range s.incidents {
		if s.filter.Severity != SeverityAll && inc.Severity != s.filter.Severity {
			continue
		}
		res = append(res, inc)
		keys = append(keys, newSortKey(inc.ReportedAt))
	}

	oldest := s.filter.SortDirection == SortOldest
	sort.Stable(byReportedAt{items: res, keys: keys, ascending: oldest})
	return res
}

type byReportedAt struct {
	items     []Incident
	keys      []sortKey
	ascending bool
}

func (b byReportedAt) Len() int { return len(b.items) }

func (b byReportedAt) Less(i, j int) bool {
	if b.ascending {
		return b.keys[i].less(b.keys[j])
	}
	return b.keys[j].less(b.keys[i])
}

func (b byReportedAt) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

func (s *Store) Filter() FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter replaces the filter wholesale. Values are not checked.
func (s *Store) SetFilter(f FilterState) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// ToggleExpansion flips IsExpanded on the incident with the given id and
// reports whether one was found. An unknown id leaves the store untouched.
func (s *Store) ToggleExpansion(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.incidents {
		if s.incidents[i].ID == id {
			s.incidents[i].IsExpanded = !s.incidents[i].IsExpanded
			return true
		}
	}
	return false
}

// Add creates an incident stamped with the current time and places it at the
// front of the collection.
func (s *Store) Add(in NewIncident) (Incident, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Incident{}, ErrEmptyTitle
	}
	if strings.TrimSpace(in.Description) == "" {
		return Incident{}, ErrEmptyDescription
	}
	if !in.Severity.Valid() {
		return Incident{}, ErrInvalidSeverity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	inc := Incident{
		ID:          s.nextIDLocked(now),
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		ReportedAt:  FormatReportedAt(now),
	}
	s.incidents = append([]Incident{inc}, s.incidents...)
	return inc, nil
}

// nextIDLocked derives an id from the clock in milliseconds, bumped past the
// previous one and past anything already in the collection.
func (s *Store) nextIDLocked(now time.Time) string {
	candidate := now.UnixMilli()
	if candidate <= s.lastID {
		candidate = s.lastID + 1
	}
	for s.hasIDLocked(strconv.FormatInt(candidate, 10)) {
		candidate++
	}
	s.lastID = candidate
	return strconv.FormatInt(candidate, 10)
}

func (s *Store) hasIDLocked(id string) bool {
	for _, inc := range s.incidents {
		if inc.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) Get(id string) (Incident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inc := range s.incidents {
		if inc.ID == id {
			return inc, true
		}
	}
	return Incident{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.incidents)
}
