// Package mailer sends the order confirmation email
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type OrderConfirmation struct {
	OrderID   int64
	FirstName string
	FilmTitle string
	RoomName  string
	StartsAt  string
	Seats     []string
	PDFURL    string
}

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, data OrderConfirmation) error
}

var confirmationTmpl = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Cinema Pegasus</h2>
  <p>Ciao {{.FirstName}},</p>
  <p>il tuo ordine <strong>#{{.OrderID}}</strong> è confermato.</p>
  <table cellpadding="4">
    <tr><td>Film</td><td>{{.FilmTitle}}</td></tr>
    <tr><td>Sala</td><td>{{.RoomName}}</td></tr>
    <tr><td>Data</td><td>{{.StartsAt}}</td></tr>
    <tr><td>Posti</td><td>{{range $i, $s := .Seats}}{{if $i}}, {{end}}{{$s}}{{end}}</td></tr>
  </table>
  {{if .PDFURL}}<p><a href="{{.PDFURL}}">Scarica i biglietti (PDF)</a></p>{{end}}
</body>
</html>`))

func renderConfirmation(data OrderConfirmation) (string, error) {
	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return body.String(), nil
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func NewSMTPMailer(host string, port int, user, password, from string, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		log:    log.With(zap.String("mailer", "smtp")),
	}
}

func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, to string, data OrderConfirmation) error {
	body, err := renderConfirmation(data)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Cinema Pegasus - ordine #%d", data.OrderID))
	msg.SetBody("text/html", body)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info("Order confirmation sent", zap.Int64("order_id", data.OrderID), zap.String("to", to))
	return nil
}

type Noop struct{}

func (Noop) SendOrderConfirmation(context.Context, string, OrderConfirmation) error { return nil }
