// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docsapi is the client for the remote documentation service. It
// resolves library names to canonical identifiers and fetches topic- and
// token-scoped documentation, classifying every failure into a
// types.ErrorKind and retrying the transient ones.
package docsapi

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pdiddy/libdocs/internal/metrics"
	"github.com/pdiddy/libdocs/pkg/types"
)

// Client is the caller-facing surface: Resolve and Fetch share one Transport.
type Client struct {
	Resolver *Resolver
	Fetcher  *Fetcher
}

// New builds a Client talking to cfg.BaseURL.
func New(cfg types.ClientConfig, log zerolog.Logger, m *metrics.Metrics) *Client {
	return NewWithSender(NewTransport(cfg, log, m))
}

// NewWithSender builds a Client on top of an arbitrary Sender.
func NewWithSender(s Sender) *Client {
	return &Client{
		Resolver: &Resolver{Transport: s},
		Fetcher:  &Fetcher{Transport: s},
	}
}

// Resolve returns candidate libraries for query in service order.
func (c *Client) Resolve(ctx context.Context, query string) ([]types.SearchResult, error) {
	return c.Resolver.Search(ctx, query)
}

// Fetch parses id and fetches its documentation. An empty topic means
// unfiltered; tokens of 0 means types.DefaultTokenLimit.
func (c *Client) Fetch(ctx context.Context, id, topic string, tokens int) (types.DocResponse, error) {
	lib, err := types.ParseIdentifier(id)
	if err != nil {
		return types.DocResponse{}, err
	}
	return c.Fetcher.FetchDocs(ctx, types.DocRequest{
		Identifier: lib,
		Topic:      topic,
		TokenLimit: tokens,
	})
}
