package mailer

import (
	"bytes"
	"html/template"

	"github.com/go-mail/mail/v2"
)

const welcomeTemplate = `
{{define "subject"}}Thanks for joining in!{{end}}
{{define "plainBody"}}Welcome to the task manager, {{.Name}}! Let us know how you get along with the app.{{end}}
{{define "htmlBody"}}<p>Welcome to the task manager, {{.Name}}! Let us know how you get along with the app.</p>{{end}}`

const cancellationTemplate = `
{{define "subject"}}Sorry to see you go!{{end}}
{{define "plainBody"}}Goodbye {{.Name}}. We hope to see you back again soon!{{end}}
{{define "htmlBody"}}<p>Goodbye {{.Name}}. We hope to see you back again soon!</p>{{end}}`

// Mailer sends transactional account email over SMTP.
type Mailer struct {
	dialer *mail.Dialer
	sender string
}

// New creates a Mailer for the given SMTP settings.
func New(host string, port int, username, password, sender string) *Mailer {
	return &Mailer{
		dialer: mail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

// SendWelcome sends the post-registration welcome email.
func (m *Mailer) SendWelcome(to, name string) error {
	return m.send(to, welcomeTemplate, struct{ Name string }{Name: name})
}

// SendCancellation sends the account-deletion goodbye email.
func (m *Mailer) SendCancellation(to, name string) error {
	return m.send(to, cancellationTemplate, struct{ Name string }{Name: name})
}

func (m *Mailer) send(to, tmplText string, data any) error {
	tmpl, err := template.New("email").Parse(tmplText)
	if err != nil {
		return err
	}

	var subject bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return err
	}
	var plainBody bytes.Buffer
	if err := tmpl.ExecuteTemplate(&plainBody, "plainBody", data); err != nil {
		return err
	}
	var htmlBody bytes.Buffer
	if err := tmpl.ExecuteTemplate(&htmlBody, "htmlBody", data); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	// SMTP hiccups are common enough to warrant a couple of retries.
	for i := 0; i < 3; i++ {
		err = m.dialer.DialAndSend(msg)
		if err == nil {
			break
		}
	}
	return err
}
