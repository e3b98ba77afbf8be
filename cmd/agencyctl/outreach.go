package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/agency-backoffice/internal/app"
	"github.com/xavierca1/agency-backoffice/internal/entity"
	"github.com/xavierca1/agency-backoffice/internal/usecase"
)

func newOutreachCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outreach",
		Short: "Send outreach campaigns",
	}
	cmd.AddCommand(newOutreachSendCmd(open), newOutreachTemplatesCmd())
	return cmd
}

func newOutreachSendCmd(open opener) *cobra.Command {
	var (
		leadsFile string
		template  string
		delay     time.Duration
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a template to every recipient in a JSON file",
		Long: `send reads a JSON array of recipients ({"name","email","company","website","industry","location"})
and mails each one the chosen template, pausing --delay between messages. Ctrl-C stops the batch;
recipients not reached are reported as cancelled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients, err := readRecipients(leadsFile)
			if err != nil {
				return err
			}

			return withApp(cmd, open, func(a *app.App) error {
				if dryRun {
					return previewOutreach(cmd, a, recipients, template)
				}

				if !cmd.Flags().Changed("delay") {
					delay = a.Config.Outreach.Delay
				}
				results, runErr := a.Outreach.SendBulk(cmd.Context(), recipients, template, delay)
				if results == nil && runErr != nil {
					return runErr
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "EMAIL\tRESULT\tERROR")
				for _, r := range results {
					status := "sent"
					if !r.Success {
						status = "failed"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", r.Email, status, r.Error)
				}
				w.Flush()

				sent := usecase.CountSent(results)
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d sent, %d failed\n", sent, len(results)-sent)
				if runErr != nil {
					return runErr
				}
				if sent == 0 {
					return fmt.Errorf("no message was delivered")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&leadsFile, "leads", "l", "", "JSON file with the recipients")
	cmd.Flags().StringVarP(&template, "template", "t", "introduction", "Outreach template name")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Pause between two messages (default OUTREACH_DELAY)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render the messages without sending them")
	_ = cmd.MarkFlagRequired("leads")
	return cmd
}

func newOutreachTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List outreach template names",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range usecase.OutreachTemplateNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func previewOutreach(cmd *cobra.Command, a *app.App, recipients []entity.Recipient, template string) error {
	for _, r := range recipients {
		msg, err := a.Outreach.Render(template, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "To: %s\nSubject: %s\n\n%s\n\n", msg.To, msg.Subject, msg.Body)
	}
	return nil
}

func readRecipients(path string) ([]entity.Recipient, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipients: %w", err)
	}
	var recipients []entity.Recipient
	if err := json.Unmarshal(raw, &recipients); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return recipients, nil
}
