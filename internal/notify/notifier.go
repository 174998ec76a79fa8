package notify

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"aspire/pkg/logging"
)

// Request is one request notification, as produced by the chat tool call or
// posted directly to the notification endpoint.
type Request struct {
	TenantID               string `json:"tenantId,omitempty"`
	To                     string `json:"to,omitempty"`
	Subject                string `json:"subject,omitempty"`
	RequestType            string `json:"requestType"`
	ResidentName           string `json:"residentName"`
	ResidentPhone          string `json:"residentPhone"`
	ResidentEmail          string `json:"residentEmail,omitempty"`
	Address                string `json:"address,omitempty"`
	PreferredContactMethod string `json:"preferredContactMethod,omitempty"`
	Urgency                string `json:"urgency,omitempty"`
	Details                string `json:"details"`
}

// MissingFields lists required fields absent from the request, in a fixed
// order so error messages are stable.
func (r Request) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.RequestType) == "" {
		missing = append(missing, "requestType")
	}
	if strings.TrimSpace(r.ResidentName) == "" {
		missing = append(missing, "residentName")
	}
	if strings.TrimSpace(r.ResidentPhone) == "" {
		missing = append(missing, "residentPhone")
	}
	if strings.TrimSpace(r.Details) == "" {
		missing = append(missing, "details")
	}
	return missing
}

// EmailSender abstracts SMTP delivery. *email.Sender satisfies it.
type EmailSender interface {
	SendMail(ctx context.Context, to, subject, htmlBody string) error
}

// Notifier renders request notifications as HTML email and delivers them.
type Notifier struct {
	sender           EmailSender
	defaultRecipient string
	logger           logging.Logger
}

func NewNotifier(sender EmailSender, defaultRecipient string, logger logging.Logger) *Notifier {
	return &Notifier{
		sender:           sender,
		defaultRecipient: defaultRecipient,
		logger:           logger,
	}
}

// Send delivers the notification and returns the recipient it went to.
func (n *Notifier) Send(ctx context.Context, req Request) (string, error) {
	recipient := strings.TrimSpace(req.To)
	if recipient == "" {
		recipient = n.defaultRecipient
	}
	if recipient == "" {
		return "", fmt.Errorf("no recipient configured for notifications")
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = fmt.Sprintf("New customer service request: %s", req.RequestType)
	}

	body, err := renderEmail("New customer service request", requestRows(req))
	if err != nil {
		return "", fmt.Errorf("render notification email: %w", err)
	}

	if err := n.sender.SendMail(ctx, recipient, subject, body); err != nil {
		notificationsSent.WithLabelValues("error").Inc()
		return "", fmt.Errorf("send notification email: %w", err)
	}

	notificationsSent.WithLabelValues("ok").Inc()
	n.logger.WithFields(logging.Fields{
		"tenant_id":    req.TenantID,
		"recipient":    recipient,
		"request_type": req.RequestType,
	}).Info("Request notification delivered")
	return recipient, nil
}

// SendContact delivers a contact-form submission to the configured staff
// mailbox. No recipient override here; only the chat tool can redirect mail.
func (n *Notifier) SendContact(ctx context.Context, sub ContactSubmission) error {
	if n.defaultRecipient == "" {
		return fmt.Errorf("no recipient configured for notifications")
	}

	rows := []emailRow{
		{Label: "Name", Value: sub.Name},
		{Label: "Email", Value: sub.Email},
		{Label: "Phone", Value: sub.Phone},
		{Label: "Message", Value: sub.Message},
	}
	body, err := renderEmail("New contact form submission", rows)
	if err != nil {
		return fmt.Errorf("render contact email: %w", err)
	}

	if err := n.sender.SendMail(ctx, n.defaultRecipient, "New Contact Form Submission", body); err != nil {
		notificationsSent.WithLabelValues("error").Inc()
		return fmt.Errorf("send contact email: %w", err)
	}

	notificationsSent.WithLabelValues("ok").Inc()
	n.logger.WithFields(logging.Fields{
		"recipient": n.defaultRecipient,
	}).Info("Contact notification delivered")
	return nil
}

var emailTemplate = template.Must(template.New("notification").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
<h2>{{.Title}}</h2>
<table cellpadding="6" style="border-collapse: collapse;">
{{range .Rows}}<tr>
<td style="font-weight: bold; vertical-align: top;">{{.Label}}</td>
<td>{{.Value}}</td>
</tr>
{{end}}</table>
<p style="color: #777; font-size: 12px;">Sent by the council assistant.</p>
</body>
</html>`))

type emailRow struct {
	Label string
	Value string
}

func requestRows(req Request) []emailRow {
	rows := []emailRow{
		{Label: "Request type", Value: req.RequestType},
		{Label: "Resident name", Value: req.ResidentName},
		{Label: "Phone", Value: req.ResidentPhone},
	}
	if req.ResidentEmail != "" {
		rows = append(rows, emailRow{Label: "Email", Value: req.ResidentEmail})
	}
	if req.Address != "" {
		rows = append(rows, emailRow{Label: "Address", Value: req.Address})
	}
	if req.PreferredContactMethod != "" {
		rows = append(rows, emailRow{Label: "Preferred contact", Value: req.PreferredContactMethod})
	}
	if req.Urgency != "" {
		rows = append(rows, emailRow{Label: "Urgency", Value: req.Urgency})
	}
	rows = append(rows, emailRow{Label: "Details", Value: req.Details})
	if req.TenantID != "" {
		rows = append(rows, emailRow{Label: "Council", Value: req.TenantID})
	}
	return rows
}

func renderEmail(title string, rows []emailRow) (string, error) {
	var b strings.Builder
	err := emailTemplate.Execute(&b, map[string]interface{}{
		"Title": title,
		"Rows":  rows,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
