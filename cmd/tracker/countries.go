package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blockedby/application-tracker/internal/catalog"
)

func newCountriesCmd(c *cli) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List country codes with localized names",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}
			matches := catalog.SearchCountries(catalog.Countries(cat.Locale), search)
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matching country")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, country := range matches {
				fmt.Fprintf(w, "%s\t%s\t%s\n", catalog.Flag(country.Code), country.Code, country.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name or code")
	return cmd
}
