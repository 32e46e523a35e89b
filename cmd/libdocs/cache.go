// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/libdocs/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local documentation cache",
	Long: `The cache keeps fetched documentation in a local SQLite database
(see cache.dir and cache.ttl in the config file). It is used by
"libdocs docs --cache" or when cache.enabled is true.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(appConfig.Cache)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached entries\n", n)
		return nil
	},
}

var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "List cached entries as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := cache.Open(appConfig.Cache)
		if err != nil {
			return err
		}
		defer store.Close()

		switch format {
		case "yaml", "":
			return store.ExportYAML(cmd.Context(), cmd.OutOrStdout())
		case "json":
			return store.ExportJSON(cmd.Context(), cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
	},
}

func init() {
	cacheCmd.PersistentFlags().String("dir", "", "cache directory (overrides cache.dir)")
	if err := viper.BindPFlag("cache.dir", cacheCmd.PersistentFlags().Lookup("dir")); err != nil {
		panic(err)
	}
	cacheExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheExportCmd)
	rootCmd.AddCommand(cacheCmd)
}
