// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsapi

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/libdocs/pkg/types"
)

// SearchFile is the on-disk form of a search and its results, so a caller
// can pick an identifier later without searching again.
type SearchFile struct {
	Query     string               `yaml:"query"`
	Results   []types.SearchResult `yaml:"results"`
	Timestamp time.Time            `yaml:"timestamp"`
}

// WriteSearchFile saves query and its results to a YAML file.
func WriteSearchFile(path, query string, results []types.SearchResult) error {
	sf := SearchFile{
		Query:     query,
		Results:   results,
		Timestamp: time.Now().UTC(),
	}
	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling search file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSearchFile loads a previously saved search file.
func ReadSearchFile(path string) (*SearchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading search file: %w", err)
	}
	var sf SearchFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing search file: %w", err)
	}
	return &sf, nil
}

// Pick returns the identifier of the n-th result (1-based).
func (sf *SearchFile) Pick(n int) (types.LibraryIdentifier, error) {
	if n < 1 || n > len(sf.Results) {
		return types.LibraryIdentifier{}, fmt.Errorf("result %d out of range: search for %q has %d results", n, sf.Query, len(sf.Results))
	}
	return sf.Results[n-1].Identifier()
}
