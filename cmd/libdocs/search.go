// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/libdocs/internal/docsapi"
)

var searchCmd = &cobra.Command{
	Use:   "search <library name...>",
	Short: "Resolve a library name to canonical identifiers",
	Long: `Search asks the documentation service for libraries matching a name
and prints candidates in the order the service ranked them, with trust
score and code snippet count to help pick the right one.

Use --save to keep the results in a YAML file; "libdocs docs --from FILE
--pick N" fetches the N-th result later without searching again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		savePath, _ := cmd.Flags().GetString("save")
		return runSearch(cmd.Context(), newClient(), strings.Join(args, " "), jsonOutput, savePath, cmd.OutOrStdout())
	},
}

func init() {
	searchCmd.Flags().Bool("json", false, "output raw results as JSON")
	searchCmd.Flags().String("save", "", "save query and results to a YAML file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(ctx context.Context, client *docsapi.Client, query string, jsonOutput bool, savePath string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := client.Resolve(ctx, query)
	if err != nil {
		return err
	}

	if savePath != "" {
		if err := docsapi.WriteSearchFile(savePath, query, results); err != nil {
			return err
		}
		logger.Info().Str("path", savePath).Int("results", len(results)).Msg("saved search")
	}

	if jsonOutput {
		return writeJSON(w, map[string]any{"results": results})
	}
	formatSearchResults(w, query, results)
	return nil
}
