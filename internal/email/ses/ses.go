package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"rcmbooks/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendPaymentReminder(ctx context.Context, toEmail, toName string, reminder port.PaymentReminder) error {
	subject := fmt.Sprintf("RCM liability overdue: %s (period %s)", reminder.InvoiceNumber, reminder.ReturnPeriod)
	htmlBody := buildReminderHTML(toName, reminder)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nThe reverse charge liability of Rs. %s for invoice %s (GSTIN %s, period %s) was due on %s and is now %d day(s) overdue (%s).\n\nPay via challan under the cash ledger to keep interest under Section 50 from accruing.\n\nRCM Books",
		toName, reminder.AmountDue, reminder.InvoiceNumber, reminder.GSTIN,
		reminder.ReturnPeriod, reminder.DueDate, reminder.DaysOverdue, reminder.Category)
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendFilingConfirmation(ctx context.Context, toEmail, toName, period, archiveURL string) error {
	subject := fmt.Sprintf("GSTR-3B RCM annexure filed for period %s", period)
	htmlBody := buildFilingHTML(toName, period, archiveURL)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nThe reverse charge annexure for period %s has been marked filed. A snapshot of the filed report is archived at:\n%s\n\nRCM Books",
		toName, period, archiveURL)
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildReminderHTML(name string, r port.PaymentReminder) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Reverse charge liability overdue</h2>
  <p>Hi %s,</p>
  <p>The reverse charge liability below is past its due date. Interest under Section 50 accrues daily until it is paid through the cash ledger.</p>
  <table style="border-collapse: collapse; width: 100%%;">
    <tr><td style="padding: 6px 12px; color: #666;">GSTIN</td><td style="padding: 6px 12px;">%s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Invoice</td><td style="padding: 6px 12px;">%s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Period</td><td style="padding: 6px 12px;">%s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Amount due</td><td style="padding: 6px 12px;">Rs. %s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Due date</td><td style="padding: 6px 12px;">%s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Days overdue</td><td style="padding: 6px 12px;">%d (%s)</td></tr>
  </table>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">RCM Books - Reverse Charge Compliance</p>
</body>
</html>`, name, r.GSTIN, r.InvoiceNumber, r.ReturnPeriod, r.AmountDue, r.DueDate, r.DaysOverdue, r.Category)
}

func buildFilingHTML(name, period, archiveURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Return period %s filed</h2>
  <p>Hi %s,</p>
  <p>The reverse charge annexure for period %s has been marked filed. The filed snapshot is archived here:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">RCM Books - Reverse Charge Compliance</p>
</body>
</html>`, period, name, period, archiveURL)
}
