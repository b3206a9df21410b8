package incidents

import "errors"

type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"

	// SeverityAll is only meaningful as a filter selector.
	SeverityAll Severity = "All"
)

// Valid reports whether s is one of the three incident severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

type SortDirection string

const (
	SortNewest SortDirection = "newest"
	SortOldest SortDirection = "oldest"
)

func (d SortDirection) Valid() bool {
	return d == SortNewest || d == SortOldest
}

type Incident struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Severity    Severity `json:"severity" yaml:"severity"`
	ReportedAt  string   `json:"reported_at" yaml:"reported_at"`
	IsExpanded  bool     `json:"isExpanded" yaml:"-"`
}

// NewIncident is the caller-supplied part of an incident; the store fills in
// the id, the report timestamp and the expansion flag.
type NewIncident struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// FilterState selects which incidents are visible and in which order.
type FilterState struct {
	Severity      Severity      `json:"severity" yaml:"severity"`
	SortDirection SortDirection `json:"sortDirection" yaml:"sortDirection"`
}

func DefaultFilter() FilterState {
	return FilterState{Severity: SeverityAll, SortDirection: SortNewest}
}

// Validate checks both fields against their enumerated domains. The store
// never calls it; it is for callers that accept filters from the outside.
func (f FilterState) Validate() error {
	if f.Severity != SeverityAll && !f.Severity.Valid() {
		return ErrInvalidFilter
	}
	if !f.SortDirection.Valid() {
		return ErrInvalidFilter
	}
	return nil
}

var (
	ErrInvalidIncident  = errors.New("invalid incident")
	ErrEmptyTitle       = fmtInvalid("title is required")
	ErrEmptyDescription = fmtInvalid("description is required")
	ErrInvalidSeverity  = fmtInvalid("severity must be Low, Medium or High")

	ErrInvalidFilter = errors.New("invalid filter")
)

type invalidIncidentError struct {
	msg string
}

func fmtInvalid(msg string) error {
	return &invalidIncidentError{msg: msg}
}

func (e *invalidIncidentError) Error() string {
	return ErrInvalidIncident.Error() + ": " + e.msg
}

func (e *invalidIncidentError) Unwrap() error {
	return ErrInvalidIncident
}
