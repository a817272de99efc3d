package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blockedby/application-tracker/internal/listing"
)

type listOptions struct {
	filter   string
	sort     string
	desc     bool
	page     int
	pageSize int
}

func newListCmd(c *cli) *cobra.Command {
	var o listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recorded applications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}
			l := listing.New(c.client(),
				listing.WithLogger(c.log.Component("listing")),
				listing.WithLocale(cat.Locale),
			)
			if err := applyListOptions(l, &o); err != nil {
				return err
			}
			if err := l.Load(cmd.Context()); err != nil {
				return err
			}
			l.SetPage(o.page - 1)
			renderListing(cmd.OutOrStdout(), l)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&o.filter, "filter", "", "Match company, title, country, status or its label")
	fl.StringVar(&o.sort, "sort", "", "Sort column: companyName, jobTitle, country, status, applicationDate, publicationDate, jobLink")
	fl.BoolVar(&o.desc, "desc", false, "Sort descending")
	fl.IntVar(&o.page, "page", 1, "Page number, from 1")
	fl.IntVar(&o.pageSize, "page-size", listing.DefaultPageSize, "Rows per page: 5, 10, 25 or 50")
	return cmd
}

func applyListOptions(l *listing.Listing, o *listOptions) error {
	if err := l.SetPageSize(o.pageSize); err != nil {
		return err
	}
	col, err := listing.ParseColumn(o.sort)
	if err != nil {
		return err
	}
	dir := listing.Asc
	if o.desc {
		dir = listing.Desc
	}
	if err := l.SetSort(col, dir); err != nil {
		return err
	}
	l.SetFilter(o.filter)
	return nil
}

func renderListing(out io.Writer, l *listing.Listing) {
	rows := l.Page()
	if len(rows) == 0 {
		fmt.Fprintln(out, "no applications")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tTITLE\tCOUNTRY\tSTATUS\tAPPLIED\tPUBLISHED\tLINK")
	for _, app := range rows {
		published := "-"
		if app.PublicationDate != nil {
			published = app.PublicationDate.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			app.CompanyName, app.JobTitle, app.Country, app.Status.Label(l.Locale()),
			app.ApplicationDate, published, app.JobLink)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "page %d/%d, %d of %d applications\n",
		l.CurrentPage()+1, l.PageCount(), len(l.Filtered()), l.Total())
}

// listNavigator shows the first page of the listing after a successful add.
type listNavigator struct {
	lister listing.Lister
	locale string
	out    io.Writer
}

func (n *listNavigator) ShowListing(ctx context.Context) error {
	l := listing.New(n.lister, listing.WithLocale(n.locale))
	if err := l.Load(ctx); err != nil {
		return err
	}
	renderListing(n.out, l)
	return nil
}
