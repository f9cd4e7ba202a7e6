package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"dangstore-backend/internal/config"
)

type Service interface {
	SendEmailVerification(ctx context.Context, toEmail, fullName, verificationToken string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error
	SendOrderReceivedEmail(ctx context.Context, toEmail, fullName, orderID string) error
	SendQuoteReadyEmail(ctx context.Context, toEmail, fullName, orderID string, priceCents int64) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

var baseTemplate = template.Must(template.New("email").Parse(`
<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto;">
	<h2>{{.Title}}</h2>
	<p>Hola {{.Name}},</p>
	<p>{{.Body}}</p>
	{{if .Link}}<p><a href="{{.Link}}">{{.LinkLabel}}</a></p>{{end}}
	<p style="color: #888; font-size: 12px;">DangStore · llaveros y accesorios personalizados</p>
</div>`))

type emailData struct {
	Title     string
	Name      string
	Body      string
	Link      string
	LinkLabel string
}

func (s *service) sendEmail(toEmail, subject string, data emailData) error {
	var body bytes.Buffer
	if err := baseTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("DangStore <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *service) SendEmailVerification(ctx context.Context, toEmail, fullName, verificationToken string) error {
	return s.sendEmail(toEmail, "Confirma tu correo", emailData{
		Title:     "Confirma tu correo",
		Name:      fullName,
		Body:      "Gracias por registrarte en DangStore. Confirma tu correo para activar tu cuenta.",
		Link:      fmt.Sprintf("https://%s/verify-email?token=%s", s.config.StoreDomain, verificationToken),
		LinkLabel: "Confirmar correo",
	})
}

func (s *service) SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error {
	return s.sendEmail(toEmail, "Restablece tu contraseña", emailData{
		Title:     "Restablece tu contraseña",
		Name:      fullName,
		Body:      "Recibimos una solicitud para restablecer tu contraseña. El enlace expira en una hora.",
		Link:      fmt.Sprintf("https://%s/reset-password?token=%s", s.config.StoreDomain, resetToken),
		LinkLabel: "Restablecer contraseña",
	})
}

func (s *service) SendOrderReceivedEmail(ctx context.Context, toEmail, fullName, orderID string) error {
	return s.sendEmail(toEmail, "Recibimos tu pedido", emailData{
		Title:     "Recibimos tu pedido",
		Name:      fullName,
		Body:      "Tu pedido está en revisión. Te enviaremos una cotización muy pronto.",
		Link:      fmt.Sprintf("https://%s/orders/%s", s.config.StoreDomain, orderID),
		LinkLabel: "Ver pedido",
	})
}

func (s *service) SendQuoteReadyEmail(ctx context.Context, toEmail, fullName, orderID string, priceCents int64) error {
	return s.sendEmail(toEmail, "Tu cotización está lista", emailData{
		Title:     "Tu cotización está lista",
		Name:      fullName,
		Body:      fmt.Sprintf("Tu cotización es de $%.2f MXN. Entra para aceptarla o rechazarla.", float64(priceCents)/100),
		Link:      fmt.Sprintf("https://%s/orders/%s", s.config.StoreDomain, orderID),
		LinkLabel: "Ver cotización",
	})
}
