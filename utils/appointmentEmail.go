package utils

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// AppointmentNotice describes an appointment event sent to the patient.
type AppointmentNotice struct {
	To          string
	PatientName string
	DoctorName  string
	When        time.Time
	Status      string
	Changed     bool
}

func (n AppointmentNotice) subject() string {
	if n.Changed {
		return "Your appointment is now " + n.Status
	}
	return "Appointment confirmation"
}

// Notifier delivers appointment notices.
type Notifier interface {
	NotifyAppointment(ctx context.Context, notice AppointmentNotice) error
}

// NoopNotifier drops every notice. It is used when SMTP is not configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyAppointment(context.Context, AppointmentNotice) error {
	return nil
}

type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Sender abstracts gomail's dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends appointment notices over SMTP.
type Mailer struct {
	from   string
	sender Sender
}

func NewMailer(settings SMTPSettings) *Mailer {
	from := settings.From
	if from == "" {
		from = settings.User
	}
	return &Mailer{
		from:   from,
		sender: gomail.NewDialer(settings.Host, settings.Port, settings.User, settings.Password),
	}
}

// NewMailerWithSender is used with a custom transport.
func NewMailerWithSender(from string, sender Sender) *Mailer {
	return &Mailer{from: from, sender: sender}
}

func (m *Mailer) NotifyAppointment(ctx context.Context, notice AppointmentNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := m.buildMessage(notice)
	if err != nil {
		return err
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "send appointment email")
	}
	return nil
}

func (m *Mailer) buildMessage(notice AppointmentNotice) (*gomail.Message, error) {
	var html bytes.Buffer
	if err := appointmentTemplate.Execute(&html, notice); err != nil {
		return nil, errors.Wrap(err, "render appointment email")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", notice.To)
	msg.SetHeader("Subject", notice.subject())
	msg.SetBody("text/plain", "Dear "+notice.PatientName+", your appointment with "+notice.DoctorName+
		" on "+notice.When.Format(time.RFC1123)+" is "+notice.Status+".")
	msg.AddAlternative("text/html", html.String())
	return msg, nil
}

var appointmentTemplate = template.Must(template.New("appointment").Funcs(template.FuncMap{
	"when": func(t time.Time) string { return t.Format(time.RFC1123) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
	<title>Appointment</title>
	<style>
		body {
			font-family: Arial, sans-serif;
			background-color: #f4f4f4;
			margin: 0;
			padding: 0;
		}
		.container {
			background-color: #ffffff;
			margin: 20px auto;
			padding: 20px;
			border-radius: 8px;
			max-width: 600px;
		}
		.status {
			font-weight: bold;
			color: #007bff;
		}
	</style>
</head>
<body>
	<div class="container">
		<h1>Appointment {{if .Changed}}update{{else}}confirmation{{end}}</h1>
		<p>Dear {{.PatientName}},</p>
		<p>Your appointment with {{.DoctorName}} on {{when .When}} is <span class="status">{{.Status}}</span>.</p>
	</div>
</body>
</html>
`))
