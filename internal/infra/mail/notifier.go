package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

var alertTemplate = template.Must(template.New("new_lead").Parse(`A new lead just came in.

Name:    {{.Name}}
Email:   {{.Email}}
{{- if .Company}}
Company: {{.Company}}
{{- end}}
Source:  {{.Source}}
Status:  {{.Status}}
`))

// LeadNotifier emails an operator when a lead is captured manually.
// Delivery is best-effort; the caller logs and ignores failures.
type LeadNotifier struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func NewLeadNotifier(host string, port int, user, password, from, to string) *LeadNotifier {
	return &LeadNotifier{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

func (n *LeadNotifier) NotifyNewLead(lead *entity.Lead) error {
	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, lead); err != nil {
		return fmt.Errorf("rendering lead alert: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s", lead.Name))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(n.Host, n.Port, n.User, n.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending lead alert: %w", err)
	}
	return nil
}
