// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"
)

// Entry is one cached response as listed or exported.
type Entry struct {
	LibraryID string    `json:"library_id" yaml:"library_id"`
	Topic     string    `json:"topic,omitempty" yaml:"topic,omitempty"`
	Tokens    int       `json:"tokens" yaml:"tokens"`
	Version   string    `json:"version,omitempty" yaml:"version,omitempty"`
	Bytes     int       `json:"bytes" yaml:"bytes"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
	Stale     bool      `json:"stale" yaml:"stale"`
}

// Entries lists all cached responses, newest first.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT library_id, topic, tokens, version, length(CAST(content AS BLOB)), fetched_at
		 FROM docs ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var fetchedAt string
		if err := rows.Scan(&e.LibraryID, &e.Topic, &e.Tokens, &e.Version, &e.Bytes, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
			e.FetchedAt = t
			e.Stale = s.now().Sub(t) > s.ttl
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ExportYAML writes the entry list to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return nil
}

// ExportJSON writes the entry list to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
