// Package send provides the "inq send" command for emailing reports and
// exports over SMTP.
package send

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/inquirykit/internal/email"
)

// NewCommand returns the send subcommand.
func NewCommand() *cobra.Command {
	var (
		to      []string
		cc      []string
		subject string
		body    string
		attach  string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Email a report or export over SMTP",
		Long: `Send an email with an optional attachment, typically a generated
report or an exported workbook. SMTP settings come from the
INQ_SMTP_HOST, INQ_SMTP_PORT, INQ_SMTP_USERNAME, INQ_SMTP_PASSWORD, and
INQ_SMTP_FROM environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := email.LoadConfig()
			if err != nil {
				return err
			}

			msg := email.Message{
				To:      to,
				CC:      cc,
				Subject: subject,
				Body:    body,
				Attach:  attach,
			}
			if msg.Subject == "" {
				msg.Subject = "Inquiry analysis report"
			}
			if msg.Body == "" {
				msg.Body = "Attached is the latest inquiry analysis."
			}

			if err := email.Send(cfg, msg); err != nil {
				return err
			}

			fmt.Printf("Sent to %d recipient(s)", len(to)+len(cc))
			if attach != "" {
				fmt.Printf(" with attachment %s (%d bytes)", attach, msg.AttachSize())
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipient addresses (required)")
	cmd.Flags().StringSliceVar(&cc, "cc", nil, "CC addresses")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Email subject")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Email body text")
	cmd.Flags().StringVarP(&attach, "attach", "a", "", "File to attach (report or export)")
	return cmd
}
