package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockedby/application-tracker/internal/catalog"
)

var errInvalidCatalog = errors.New("invalid catalog")

func newCatalogCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect reference data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "default country: %s %s\n", catalog.Flag(cat.DefaultCountry), cat.DefaultCountry)
			fmt.Fprintf(out, "locale: %s\n", cat.Locale)
			fmt.Fprintln(out, "attachments:")
			for _, a := range cat.Attachments {
				fmt.Fprintf(out, "  - %s\n", a)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE...",
		Short: "Check catalog YAML files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				if _, err := catalog.Load(path); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "❌ %s: %v\n", path, err)
					failed = true
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is valid\n", path)
			}
			if failed {
				return errInvalidCatalog
			}
			return nil
		},
	})
	return cmd
}
