package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/agency-backoffice/internal/app"
	"github.com/xavierca1/agency-backoffice/internal/entity"
)

func newLeadsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Inspect captured leads",
	}

	var (
		status string
		stale  time.Duration
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "Print leads, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(a *app.App) error {
				var (
					leads []entity.Lead
					err   error
				)
				if stale > 0 {
					leads, err = a.Leads.Stale(cmd.Context(), stale)
				} else {
					leads, err = a.Leads.List(cmd.Context())
				}
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSOURCE\tSTATUS\tCREATED")
				for _, l := range leads {
					if status != "" && string(l.Status) != status {
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						l.ID, l.Name, l.Email, l.Source, l.Status, l.CreatedAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}
	list.Flags().StringVar(&status, "status", "", "Only leads with this status")
	list.Flags().DurationVar(&stale, "stale", 0, "Only leads still new after this long")

	cmd.AddCommand(list)
	return cmd
}

func newSubscribersCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "Inspect newsletter subscribers",
	}

	var active bool
	list := &cobra.Command{
		Use:   "list",
		Short: "Print newsletter subscribers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(a *app.App) error {
				var (
					subs []entity.NewsletterSubscriber
					err  error
				)
				if active {
					subs, err = a.Subscribers.Active(cmd.Context())
				} else {
					subs, err = a.Subscribers.List(cmd.Context())
				}
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "EMAIL\tSTATUS\tSOURCE\tSUBSCRIBED")
				for _, s := range subs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Email, s.Status, s.Source, s.SubscribedAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}
	list.Flags().BoolVar(&active, "active", false, "Only active subscribers")

	cmd.AddCommand(list)
	return cmd
}

func newDigestCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Stale lead digest",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Email the digest of leads nobody has followed up on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(a *app.App) error {
				n, err := a.Digest.Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d stale leads reported\n", n)
				return nil
			})
		},
	})
	return cmd
}
