package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/blockedby/application-tracker/internal/models"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid application ID %q", args[0])
			}
			app, err := c.client().Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			published := "-"
			if app.PublicationDate != nil {
				published = app.PublicationDate.String()
			}
			fmt.Fprintf(w, "id\t%s\n", app.ID)
			fmt.Fprintf(w, "company\t%s\n", app.CompanyName)
			fmt.Fprintf(w, "title\t%s\n", app.JobTitle)
			fmt.Fprintf(w, "country\t%s\n", app.Country)
			fmt.Fprintf(w, "link\t%s\n", app.JobLink)
			fmt.Fprintf(w, "published\t%s\n", published)
			fmt.Fprintf(w, "applied\t%s\n", app.ApplicationDate)
			fmt.Fprintf(w, "status\t%s\n", app.Status.Label("fr"))
			fmt.Fprintf(w, "names\t%v\n", app.Contacts.Names)
			fmt.Fprintf(w, "emails\t%v\n", app.Contacts.Emails)
			fmt.Fprintf(w, "domains\t%v\n", app.Contacts.Domains)
			fmt.Fprintf(w, "phones\t%v\n", app.Contacts.Phones)
			fmt.Fprintf(w, "follow-ups\t%v\n", app.FollowUpDates)
			fmt.Fprintf(w, "files\t%v\n", app.SentFiles)
			return w.Flush()
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change the status of an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid application ID %q", args[0])
			}
			status := parseStatus(args[1])
			if !status.IsValid() {
				return fmt.Errorf("unknown status %q", args[1])
			}

			app, err := c.client().Update(cmd.Context(), id, &models.ApplicationPatch{Status: &status})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", app.CompanyName, app.Status.Label("fr"))
			return nil
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid application ID %q", args[0])
			}
			if err := c.client().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize applications by status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := c.client().Stats(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, s := range models.Statuses() {
				fmt.Fprintf(w, "%s\t%d\n", s.Label("fr"), stats.ByStatus[s])
			}
			fmt.Fprintf(w, "total\t%d\n", stats.Total)
			fmt.Fprintf(w, "follow-ups due\t%d\n", stats.FollowUpsDue)
			return w.Flush()
		},
	}
}
