// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/libdocs/pkg/types"
)

// Fetcher retrieves documentation for a resolved library identifier.
type Fetcher struct {
	Transport Sender
}

// FetchDocs performs exactly one logical request for req. The identifier
// is validated locally first; the content is returned as the service sent
// it. A free-text name is not resolved on the caller's behalf.
func (f *Fetcher) FetchDocs(ctx context.Context, req types.DocRequest) (types.DocResponse, error) {
	if err := req.Identifier.Validate(); err != nil {
		return types.DocResponse{}, err
	}
	if req.TokenLimit < 0 {
		return types.DocResponse{}, &types.APIError{
			Kind:    types.KindInvalidRequest,
			Message: fmt.Sprintf("token limit must be positive, got %d", req.TokenLimit),
		}
	}

	var resp types.DocResponse
	if err := f.Transport.Send(ctx, docsPath(req.Identifier), docsParams(req), &resp); err != nil {
		return types.DocResponse{}, fmt.Errorf("fetching docs for %s: %w", req.Identifier, err)
	}

	if resp.Content == "" {
		return types.DocResponse{}, fmt.Errorf("fetching docs for %s: %w", req.Identifier, &types.APIError{
			Kind:    types.KindMalformedResponse,
			Status:  http.StatusOK,
			Message: "response has no content",
		})
	}
	return resp, nil
}

// docsPath builds /org/project[/version]. The version in the path is the
// only version sent.
func docsPath(id types.LibraryIdentifier) string {
	p := "/" + url.PathEscape(id.Organization) + "/" + url.PathEscape(id.Project)
	if id.Version != "" {
		p += "/" + url.PathEscape(id.Version)
	}
	return p
}

// docsParams always sends tokens and sends topic only when it is set.
func docsParams(req types.DocRequest) url.Values {
	params := url.Values{
		"tokens": {strconv.Itoa(req.EffectiveTokenLimit())},
	}
	if topic := strings.TrimSpace(req.Topic); topic != "" {
		params.Set("topic", topic)
	}
	return params
}
