// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsapi

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
)

// fakeSender records every Send and answers with a canned JSON body or error.
type fakeSender struct {
	mu    sync.Mutex
	calls []sentRequest

	body string
	err  error
}

type sentRequest struct {
	path   string
	params url.Values
}

func (f *fakeSender) Send(_ context.Context, path string, params url.Values, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, sentRequest{path: path, params: params})
	f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.body), out)
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
