package mail

import (
	"fmt"
	"html/template"
	"strings"
)

// NotificationParams parameterize the fixed notification shell.
type NotificationParams struct {
	Title     string
	Message   string
	FirstName string
	Category  string
	Winner    string
}

// TicketParams parameterize the purchase confirmation email.
type TicketParams struct {
	TicketType string
	Code       string
	PriceCents int64
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Helvetica,Arial,sans-serif;background:#0d0d0f;color:#f2f2f2;padding:32px">
  <div style="max-width:560px;margin:0 auto">
    <h1 style="color:#d4af37">{{.Title}}</h1>
    <p>Hi {{.FirstName}},</p>
    <p>{{.Message}}</p>
    {{if .Category}}<p><strong>Category:</strong> {{.Category}}{{if .Winner}} &mdash; winner: {{.Winner}}{{end}}</p>{{end}}
    <p style="color:#888;font-size:12px">You are receiving this because you opted in to event updates.</p>
  </div>
</body>
</html>`))

var ticketTmpl = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Helvetica,Arial,sans-serif;background:#0d0d0f;color:#f2f2f2;padding:32px">
  <div style="max-width:560px;margin:0 auto">
    <h1 style="color:#d4af37">Payment confirmed</h1>
    <p>Your {{.TicketType}} ticket is booked.</p>
    <p><strong>Ticket code:</strong> {{.Code}}</p>
    <p><strong>Amount paid:</strong> {{.Price}}</p>
    <p style="color:#888;font-size:12px">Keep this email; the code is required at entry.</p>
  </div>
</body>
</html>`))

// RenderNotification renders the notification shell.
func RenderNotification(params NotificationParams) (string, error) {
	if strings.TrimSpace(params.FirstName) == "" {
		params.FirstName = "there"
	}
	var buf strings.Builder
	if err := notificationTmpl.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTicketConfirmation renders the purchase confirmation body.
func RenderTicketConfirmation(params TicketParams) (string, error) {
	data := struct {
		TicketType string
		Code       string
		Price      string
	}{
		TicketType: params.TicketType,
		Code:       params.Code,
		Price:      FormatPrice(params.PriceCents),
	}
	var buf strings.Builder
	if err := ticketTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPrice renders minor units as a dollar amount.
func FormatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
