// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/libdocs/internal/cache"
	"github.com/pdiddy/libdocs/internal/docsapi"
	"github.com/pdiddy/libdocs/pkg/types"
)

var docsCmd = &cobra.Command{
	Use:   "docs [identifiers...]",
	Short: "Fetch documentation for one or more library identifiers",
	Long: `Docs fetches documentation for canonical identifiers such as
/vercel/next.js or /vercel/next.js/v14.3.0. --topic narrows the content to
a subject and --tokens bounds its size (default 5000).

Several identifiers are fetched in parallel and printed in argument order.
Names that are not identifiers are not resolved automatically: run
"libdocs search" first.`,
	RunE: runDocsCmd,
}

func init() {
	docsCmd.Flags().String("topic", "", "focus on a topic (e.g. routing, hooks)")
	docsCmd.Flags().Int("tokens", 0, "maximum tokens to retrieve (default 5000)")
	docsCmd.Flags().Bool("json", false, "output the raw response as JSON")
	docsCmd.Flags().Bool("cache", false, "read and write the local documentation cache")
	docsCmd.Flags().String("from", "", "take the identifier from a file written by search --save")
	docsCmd.Flags().Int("pick", 1, "result number to use with --from")
	docsCmd.Flags().Int("parallel", 4, "maximum concurrent fetches")

	rootCmd.AddCommand(docsCmd)
}

// docsOptions collects the docs command's flags.
type docsOptions struct {
	Topic    string
	Tokens   int
	Format   types.OutputFormat
	Parallel int
}

// docsResult is the outcome of one fetch.
type docsResult struct {
	Request types.DocRequest
	Resp    types.DocResponse
	Cached  bool
	Err     error
}

func runDocsCmd(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	tokens, _ := cmd.Flags().GetInt("tokens")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	useCache, _ := cmd.Flags().GetBool("cache")
	from, _ := cmd.Flags().GetString("from")
	pick, _ := cmd.Flags().GetInt("pick")
	parallel, _ := cmd.Flags().GetInt("parallel")

	opts := docsOptions{Topic: topic, Tokens: tokens, Format: types.OutputMarkdown, Parallel: parallel}
	if jsonOutput {
		opts.Format = types.OutputJSON
	}

	ids, err := collectIdentifiers(args, from, pick)
	if err != nil {
		return err
	}

	var store *cache.Store
	if useCache || appConfig.Cache.Enabled {
		store, err = cache.Open(appConfig.Cache)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results := fetchAll(ctx, newClient(), store, ids, opts)
	return writeDocsResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, opts.Format)
}

// collectIdentifiers parses positional identifiers plus an optional pick
// from a saved search file.
func collectIdentifiers(args []string, from string, pick int) ([]types.LibraryIdentifier, error) {
	var ids []types.LibraryIdentifier
	for _, a := range args {
		id, err := types.ParseIdentifier(a)
		if err != nil {
			return nil, fmt.Errorf("%w (run \"libdocs search %s\" to find the identifier)", err, a)
		}
		ids = append(ids, id)
	}
	if from != "" {
		sf, err := docsapi.ReadSearchFile(from)
		if err != nil {
			return nil, err
		}
		id, err := sf.Pick(pick)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("provide one or more library identifiers (e.g. /vercel/next.js) or --from")
	}
	return ids, nil
}

// fetchAll fetches every identifier with bounded parallelism. Results keep
// the order of ids; one failure does not cancel the others.
func fetchAll(ctx context.Context, client *docsapi.Client, store *cache.Store, ids []types.LibraryIdentifier, opts docsOptions) []docsResult {
	results := make([]docsResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}

	for i, id := range ids {
		req := types.DocRequest{
			Identifier:   id,
			Topic:        opts.Topic,
			TokenLimit:   opts.Tokens,
			OutputFormat: opts.Format,
		}
		g.Go(func() error {
			results[i] = fetchOne(gctx, client, store, req)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func fetchOne(ctx context.Context, client *docsapi.Client, store *cache.Store, req types.DocRequest) docsResult {
	res := docsResult{Request: req}

	if store != nil {
		resp, ok, err := store.Get(ctx, req)
		if err != nil {
			logger.Warn().Err(err).Str("library", req.Identifier.String()).Msg("cache read failed")
		}
		appMetrics.ObserveCache(ok)
		if ok {
			res.Resp, res.Cached = resp, true
			return res
		}
	}

	res.Resp, res.Err = client.Fetcher.FetchDocs(ctx, req)
	if res.Err == nil && store != nil {
		if err := store.Put(ctx, req, res.Resp); err != nil {
			logger.Warn().Err(err).Str("library", req.Identifier.String()).Msg("cache write failed")
		}
	}
	return res
}

// writeDocsResults prints successes to w and failures to errW, and fails
// when any fetch failed.
func writeDocsResults(w, errW io.Writer, results []docsResult, format types.OutputFormat) error {
	failed := 0
	var ok []docsResult
	for _, r := range results {
		if r.Err != nil {
			failed++
			if len(results) > 1 {
				fmt.Fprintf(errW, "error: %s: %v\n", r.Request.Identifier, r.Err)
			}
			continue
		}
		ok = append(ok, r)
	}

	if format == types.OutputJSON {
		if err := writeDocsJSON(w, ok, len(results) > 1); err != nil {
			return err
		}
	} else {
		formatDocs(w, ok, len(results) > 1)
	}

	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d fetches failed", failed, len(results))
	}
	return nil
}
