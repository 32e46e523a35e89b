// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the libdocs client:
// library identifiers, search results, documentation requests and
// responses, configuration, and the classified API error.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultTokenLimit is the token budget sent when a DocRequest leaves
// TokenLimit unset.
const DefaultTokenLimit = 5000

// LibraryIdentifier addresses one documentation source. The canonical text
// form is /organization/project or /organization/project/version.
type LibraryIdentifier struct {
	Organization string `json:"organization" yaml:"organization"`
	Project      string `json:"project" yaml:"project"`
	Version      string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ParseIdentifier parses a user-supplied identifier. Surrounding whitespace,
// whitespace around each segment, and any leading separators are stripped, so
// "vercel/next.js" and "/ vercel /next.js" parse to the same value.
func ParseIdentifier(s string) (LibraryIdentifier, error) {
	raw := s
	s = strings.TrimLeft(strings.TrimSpace(s), "/")
	s = strings.TrimSuffix(s, "/")

	parts := strings.Split(s, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return LibraryIdentifier{}, &APIError{
			Kind:    KindInvalidIdentifier,
			Message: fmt.Sprintf("library identifier %q must have the form /organization/project[/version]", raw),
		}
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return LibraryIdentifier{}, &APIError{
				Kind:    KindInvalidIdentifier,
				Message: fmt.Sprintf("library identifier %q has an empty segment", raw),
			}
		}
		if strings.ContainsAny(parts[i], " \t\r\n") {
			return LibraryIdentifier{}, &APIError{
				Kind:    KindInvalidIdentifier,
				Message: fmt.Sprintf("library identifier %q has whitespace inside a segment", raw),
			}
		}
	}

	id := LibraryIdentifier{Organization: parts[0], Project: parts[1]}
	if len(parts) == 3 {
		id.Version = parts[2]
	}
	return id, nil
}

// Validate reports an InvalidIdentifier error when organization or project
// is empty.
func (id LibraryIdentifier) Validate() error {
	if strings.TrimSpace(id.Organization) == "" || strings.TrimSpace(id.Project) == "" {
		return &APIError{
			Kind:    KindInvalidIdentifier,
			Message: fmt.Sprintf("library identifier %q needs a non-empty organization and project", id.String()),
		}
	}
	return nil
}

// String returns the canonical /organization/project[/version] form.
func (id LibraryIdentifier) String() string {
	s := "/" + id.Organization + "/" + id.Project
	if id.Version != "" {
		s += "/" + id.Version
	}
	return s
}

// TrustScore is the coarse reputation tier the service assigns to a
// documentation source.
type TrustScore string

const (
	TrustHigh    TrustScore = "High"
	TrustMedium  TrustScore = "Medium"
	TrustLow     TrustScore = "Low"
	TrustUnknown TrustScore = "unknown"
)

// ParseTrustScore maps a tier name onto a TrustScore, case-insensitively.
func ParseTrustScore(s string) TrustScore {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return TrustHigh
	case "medium":
		return TrustMedium
	case "low":
		return TrustLow
	default:
		return TrustUnknown
	}
}

// trustFromNumber buckets the 0-10 numeric score some service versions send.
func trustFromNumber(n float64) TrustScore {
	switch {
	case n >= 7:
		return TrustHigh
	case n >= 4:
		return TrustMedium
	case n >= 0:
		return TrustLow
	default:
		return TrustUnknown
	}
}

// UnmarshalJSON accepts either a tier name or a numeric score.
func (t *TrustScore) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ParseTrustScore(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*t = trustFromNumber(n)
		return nil
	}
	if string(data) == "null" {
		*t = TrustUnknown
		return nil
	}
	return fmt.Errorf("trust score: unsupported value %s", data)
}

// SearchResult is one candidate library returned by a search, in the order
// the service ranked it.
type SearchResult struct {
	Title            string     `json:"title" yaml:"title"`
	ID               string     `json:"id" yaml:"id"`
	Description      string     `json:"description" yaml:"description"`
	TrustScore       TrustScore `json:"trustScore" yaml:"trust_score"`
	CodeSnippetCount int        `json:"codeSnippets" yaml:"code_snippets"`
	// TrustValue holds the raw score when the service sent a number.
	TrustValue *float64 `json:"trustValue,omitempty" yaml:"trust_value,omitempty"`
}

// UnmarshalJSON decodes a search result. A missing trustScore becomes
// TrustUnknown, and a numeric score is kept in TrustValue next to its tier.
func (r *SearchResult) UnmarshalJSON(data []byte) error {
	type plain SearchResult
	aux := struct {
		*plain
		Trust json.RawMessage `json:"trustScore"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.TrustScore = TrustUnknown
	if len(aux.Trust) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(aux.Trust, &n); err == nil {
		r.TrustValue = &n
	}
	return r.TrustScore.UnmarshalJSON(aux.Trust)
}

// Identifier parses the result's ID into a LibraryIdentifier.
func (r SearchResult) Identifier() (LibraryIdentifier, error) {
	return ParseIdentifier(r.ID)
}

// OutputFormat selects how a caller renders results. It never changes the
// request sent to the service.
type OutputFormat string

const (
	OutputMarkdown OutputFormat = "markdown"
	OutputJSON     OutputFormat = "json"
)

// DocRequest is the input to a documentation fetch.
type DocRequest struct {
	Identifier LibraryIdentifier
	// Topic narrows the documentation; empty means unfiltered.
	Topic string
	// TokenLimit bounds the returned content. Zero selects DefaultTokenLimit.
	TokenLimit   int
	OutputFormat OutputFormat
}

// EffectiveTokenLimit returns the limit that is sent to the service.
func (r DocRequest) EffectiveTokenLimit() int {
	if r.TokenLimit == 0 {
		return DefaultTokenLimit
	}
	return r.TokenLimit
}

// LibraryMetadata echoes the library the service resolved.
type LibraryMetadata struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// UnmarshalJSON accepts either a bare identifier string or an object.
func (m *LibraryMetadata) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = LibraryMetadata{ID: s}
		return nil
	}
	type plain LibraryMetadata
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("library metadata: %w", err)
	}
	*m = LibraryMetadata(p)
	return nil
}

// DocResponse is the documentation returned for a DocRequest. Version holds
// the version the service actually served, which may differ from the one
// requested.
type DocResponse struct {
	Content string          `json:"content" yaml:"content"`
	Library LibraryMetadata `json:"library" yaml:"library"`
	Version string          `json:"version" yaml:"version"`
}
