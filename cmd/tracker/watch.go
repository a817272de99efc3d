package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockedby/application-tracker/internal/nats"
	"github.com/blockedby/application-tracker/internal/tracker"
)

func newWatchCmd(c *cli) *cobra.Command {
	var consumer string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print application events from NATS until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.NatsURL == "" {
				return errors.New("NATS_URL is not set")
			}
			ctx := cmd.Context()

			nc, err := nats.New(ctx, c.cfg.NatsURL)
			if err != nil {
				return err
			}
			defer nc.Close()

			if err := nc.EnsureApplicationsStream(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return nc.Subscribe(ctx, nats.StreamName, consumer, nats.SubjectWildcard, func(data []byte) error {
				var evt tracker.Event
				if err := json.Unmarshal(data, &evt); err != nil {
					// redelivery cannot fix a malformed message
					c.log.Warn().Err(err).Msg("skipping malformed event")
					return nil
				}
				fmt.Fprintf(out, "%s  %-20s  %s  %s (%s)\n",
					evt.OccurredAt.Local().Format("2006-01-02 15:04:05"),
					evt.Type, evt.ID, evt.CompanyName, evt.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&consumer, "consumer", "tracker-watch", "Durable consumer name")
	return cmd
}
