package entities

import "strings"

// Analysis is the three-part clinical critique produced by the language model
type Analysis struct {
	Summary    string `json:"summary"`
	Conclusion string `json:"conclusion"`
	Criticism  string `json:"criticism"`
}

// Validate ensures every section is present and non-blank
func (a Analysis) Validate() error {
	if strings.TrimSpace(a.Summary) == "" {
		return ErrEmptySummary
	}
	if strings.TrimSpace(a.Conclusion) == "" {
		return ErrEmptyConclusion
	}
	if strings.TrimSpace(a.Criticism) == "" {
		return ErrEmptyCriticism
	}
	return nil
}
