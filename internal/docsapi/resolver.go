// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/libdocs/pkg/types"
)

const searchPath = "/search"

// Resolver maps a free-text library name to candidate identifiers.
type Resolver struct {
	Transport Sender
}

type searchResponse struct {
	Results []types.SearchResult `json:"results"`
	Error   string               `json:"error"`
}

// Search returns the service's candidates for query in the order the
// service ranked them. Zero results is a valid answer, not an error.
func (r *Resolver) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &types.APIError{Kind: types.KindInvalidRequest, Message: "search query is empty"}
	}

	var sr searchResponse
	if err := r.Transport.Send(ctx, searchPath, url.Values{"q": {query}}, &sr); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}

	if sr.Error != "" && len(sr.Results) == 0 {
		return nil, fmt.Errorf("searching for %q: %w", query, &types.APIError{
			Kind:    types.KindServerError,
			Status:  http.StatusOK,
			Message: sr.Error,
		})
	}

	if sr.Results == nil {
		sr.Results = []types.SearchResult{}
	}
	return sr.Results, nil
}
