package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/libdocs/pkg/types"
)

// formatSearchResults writes a numbered candidate list to w.
func formatSearchResults(w io.Writer, query string, results []types.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No results found for '%s'\n", query)
		return
	}

	fmt.Fprintf(w, "Found %d results for '%s':\n\n", len(results), query)
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, orNA(r.Title))
		fmt.Fprintf(w, "   ID: %s\n", orNA(r.ID))
		fmt.Fprintf(w, "   Description: %s\n", orNA(r.Description))
		fmt.Fprintf(w, "   Trust: %s  Snippets: %d\n\n", trustLabel(r), r.CodeSnippetCount)
	}
}

func trustLabel(r types.SearchResult) string {
	label := string(r.TrustScore)
	if label == "" {
		label = string(types.TrustUnknown)
	}
	if r.TrustValue != nil {
		label += fmt.Sprintf(" (%g)", *r.TrustValue)
	}
	return label
}

// formatDocs writes documentation content. With several results each one
// gets a header naming the library and the version served.
func formatDocs(w io.Writer, results []docsResult, withHeaders bool) {
	for i, r := range results {
		if withHeaders {
			if i > 0 {
				fmt.Fprintln(w)
			}
			header := r.Request.Identifier.String()
			if r.Resp.Version != "" {
				header += " (" + r.Resp.Version + ")"
			}
			if r.Cached {
				header += " [cached]"
			}
			fmt.Fprintf(w, "==> %s <==\n", header)
		}
		fmt.Fprint(w, r.Resp.Content)
		if !strings.HasSuffix(r.Resp.Content, "\n") {
			fmt.Fprintln(w)
		}
	}
}

// writeDocsJSON writes one response object, or an array when several
// identifiers were requested.
func writeDocsJSON(w io.Writer, results []docsResult, many bool) error {
	if !many {
		if len(results) == 0 {
			return nil
		}
		return writeJSON(w, results[0].Resp)
	}
	out := make([]types.DocResponse, len(results))
	for i, r := range results {
		out[i] = r.Resp
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
