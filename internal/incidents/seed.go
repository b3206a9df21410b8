package incidents

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedIncidents returns a fresh copy of the sample dataset a new store is
// initialised with.
func SeedIncidents() []Incident {
	return []Incident{
		{
			ID:          "1",
			Title:       "Biased Recommendation Algorithm",
			Description: "Algorithm consistently favored certain demographics...",
			Severity:    SeverityMedium,
			ReportedAt:  "2025-03-15T100000Z",
		},
		{
			ID:          "2",
			Title:       "LLM Hallucination in Critical Info",
			Description: "LLM provided incorrect safety procedure information...",
			Severity:    SeverityHigh,
			ReportedAt:  "2025-04-01T143000Z",
		},
		{
			ID:          "3",
			Title:       "Minor Data Leak via Chatbot",
			Description: "Chatbot inadvertently exposed non-sensitive user metadata...",
			Severity:    SeverityLow,
			ReportedAt:  "2025-03-20T091500Z",
		},
		{
			ID:          "4",
			Title:       "Unintended Model Bias in Hiring Tool",
			Description: "AI hiring tool showed bias against candidates from certain universities...",
			Severity:    SeverityHigh,
			ReportedAt:  "2025-03-28T110000Z",
		},
		{
			ID:          "5",
			Title:       "Incorrect Sentiment Analysis for Reviews",
			Description: "Sentiment analysis model mislabeled neutral reviews as negative...",
			Severity:    SeverityMedium,
			ReportedAt:  "2025-04-03T083000Z",
		},
		{
			ID:          "6",
			Title:       "Inconsistent Language Translation Output",
			Description: "Translation model returned inaccurate results for lesser-known dialects...",
			Severity:    SeverityLow,
			ReportedAt:  "2025-03-22T153000Z",
		},
		{
			ID:          "7",
			Title:       "Voice Assistant Privacy Concern",
			Description: "Assistant accidentally recorded and stored background conversations...",
			Severity:    SeverityHigh,
			ReportedAt:  "2025-03-30T174500Z",
		},
		{
			ID:          "8",
			Title:       "Autonomous Vehicle Navigation Error",
			Description: "Self-driving algorithm failed to correctly identify temporary road signs...",
			Severity:    SeverityHigh,
			ReportedAt:  "2025-04-05T070000Z",
		},
		{
			ID:          "9",
			Title:       "Fake Content Detection Misses Deepfakes",
			Description: "Deepfake detection system failed to flag manipulated media...",
			Severity:    SeverityHigh,
			ReportedAt:  "2025-04-02T123000Z",
		},
		{
			ID:          "10",
			Title:       "Ad Targeting Model Misclassification",
			Description: "Targeting algorithm delivered irrelevant ads to wrong demographics...",
			Severity:    SeverityMedium,
			ReportedAt:  "2025-03-27T140000Z",
		},
	}
}

type seedFile struct {
	Incidents []Incident `yaml:"incidents"`
}

// LoadSeedFile reads a YAML dataset to use in place of SeedIncidents.
// reported_at values are kept as written, malformed or not.
func LoadSeedFile(path string) ([]Incident, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	seen := make(map[string]struct{}, len(sf.Incidents))
	for i, inc := range sf.Incidents {
		if inc.ID == "" {
			return nil, fmt.Errorf("seed incident %d: missing id", i)
		}
		if _, dup := seen[inc.ID]; dup {
			return nil, fmt.Errorf("seed incident %d: duplicate id %q", i, inc.ID)
		}
		seen[inc.ID] = struct{}{}
		if inc.Title == "" {
			return nil, fmt.Errorf("seed incident %q: %w", inc.ID, ErrEmptyTitle)
		}
		if !inc.Severity.Valid() {
			return nil, fmt.Errorf("seed incident %q: %w", inc.ID, ErrInvalidSeverity)
		}
		sf.Incidents[i].IsExpanded = false
	}
	return sf.Incidents, nil
}
