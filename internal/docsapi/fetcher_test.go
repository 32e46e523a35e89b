// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/libdocs/pkg/types"
)

const nextDocsBody = `{"content":"## App Router\n...","library":"/vercel/next.js","version":"v15.1.8"}`

func nextID() types.LibraryIdentifier {
	return types.LibraryIdentifier{Organization: "vercel", Project: "next.js"}
}

func TestFetchDocsInvalidIdentifierMakesNoCall(t *testing.T) {
	tests := []struct {
		name string
		id   types.LibraryIdentifier
	}{
		{"empty", types.LibraryIdentifier{}},
		{"no organization", types.LibraryIdentifier{Project: "next.js"}},
		{"no project", types.LibraryIdentifier{Organization: "vercel", Version: "v15"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSender{body: nextDocsBody}
			f := &Fetcher{Transport: fake}

			_, err := f.FetchDocs(context.Background(), types.DocRequest{Identifier: tt.id})
			assert.True(t, types.IsKind(err, types.KindInvalidIdentifier), "got %v", err)
			assert.Zero(t, fake.callCount())
		})
	}
}

func TestFetchDocsDefaultsTokensAndOmitsTopic(t *testing.T) {
	fake := &fakeSender{body: nextDocsBody}
	f := &Fetcher{Transport: fake}

	resp, err := f.FetchDocs(context.Background(), types.DocRequest{Identifier: nextID()})
	require.NoError(t, err)
	assert.Equal(t, "## App Router\n...", resp.Content)

	require.Equal(t, 1, fake.callCount())
	params := fake.calls[0].params
	assert.Equal(t, "5000", params.Get("tokens"))
	_, hasTopic := params["topic"]
	assert.False(t, hasTopic, "topic must be omitted, not sent empty")
}

func TestFetchDocsSendsTopicAndTokens(t *testing.T) {
	fake := &fakeSender{body: nextDocsBody}
	f := &Fetcher{Transport: fake}

	_, err := f.FetchDocs(context.Background(), types.DocRequest{
		Identifier: nextID(),
		Topic:      " routing ",
		TokenLimit: 2000,
	})
	require.NoError(t, err)

	params := fake.calls[0].params
	assert.Equal(t, "routing", params.Get("topic"))
	assert.Equal(t, "2000", params.Get("tokens"))
	_, hasVersion := params["version"]
	assert.False(t, hasVersion)
}

func TestFetchDocsBlankTopicIsOmitted(t *testing.T) {
	fake := &fakeSender{body: nextDocsBody}
	f := &Fetcher{Transport: fake}

	_, err := f.FetchDocs(context.Background(), types.DocRequest{Identifier: nextID(), Topic: "   "})
	require.NoError(t, err)
	_, hasTopic := fake.calls[0].params["topic"]
	assert.False(t, hasTopic)
}

func TestFetchDocsPath(t *testing.T) {
	tests := []struct {
		name string
		id   types.LibraryIdentifier
		want string
	}{
		{"without version", nextID(), "/vercel/next.js"},
		{"with version", types.LibraryIdentifier{Organization: "vercel", Project: "next.js", Version: "v14.3.0-canary.87"}, "/vercel/next.js/v14.3.0-canary.87"},
		{"escapes segments", types.LibraryIdentifier{Organization: "my org", Project: "lib"}, "/my%20org/lib"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSender{body: nextDocsBody}
			f := &Fetcher{Transport: fake}
			_, err := f.FetchDocs(context.Background(), types.DocRequest{Identifier: tt.id})
			require.NoError(t, err)
			assert.Equal(t, tt.want, fake.calls[0].path)
		})
	}
}

func TestFetchDocsNegativeTokenLimit(t *testing.T) {
	fake := &fakeSender{body: nextDocsBody}
	f := &Fetcher{Transport: fake}

	_, err := f.FetchDocs(context.Background(), types.DocRequest{Identifier: nextID(), TokenLimit: -1})
	assert.True(t, types.IsKind(err, types.KindInvalidRequest))
	assert.Zero(t, fake.callCount())
}

func TestFetchDocsEmptyContentIsMalformed(t *testing.T) {
	f := &Fetcher{Transport: &fakeSender{body: `{"library":"/vercel/next.js","version":"v15"}`}}
	_, err := f.FetchDocs(context.Background(), types.DocRequest{Identifier: nextID()})
	assert.True(t, types.IsKind(err, types.KindMalformedResponse))
}

func TestFetchDocsReturnsVersionServed(t *testing.T) {
	f := &Fetcher{Transport: &fakeSender{body: nextDocsBody}}
	resp, err := f.FetchDocs(context.Background(), types.DocRequest{
		Identifier: types.LibraryIdentifier{Organization: "vercel", Project: "next.js", Version: "latest"},
	})
	require.NoError(t, err)
	assert.Equal(t, "v15.1.8", resp.Version)
	assert.Equal(t, "/vercel/next.js", resp.Library.ID)
}

func TestFetchDocsPropagatesNotFound(t *testing.T) {
	f := &Fetcher{Transport: &fakeSender{err: &types.APIError{Kind: types.KindNotFound, Status: 404}}}
	_, err := f.FetchDocs(context.Background(), types.DocRequest{Identifier: nextID()})
	assert.True(t, types.IsKind(err, types.KindNotFound))
	assert.Contains(t, err.Error(), "/vercel/next.js")
}
