package services

import (
	"breadstation_server/cart"
	"breadstation_server/structs"
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	emailClient     *resend.Client
	emailClientOnce = sync.Once{}
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: getEmailClient(cfg.Email.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	emailClientOnce.Do(func() {
		emailClient = resend.NewClient(apiKey)
	})
	return emailClient
}

// Enabled reports whether order notifications have somewhere to go
func (es *EmailService) Enabled() bool {
	return es.cfg.Email.ApiKey != "" && len(es.cfg.Email.OrderNotifyTo) > 0
}

func (es *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	if _, err := es.client.Emails.SendWithContext(ctx, params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}
	return nil
}

// SendOrderNotification mails the shop a copy of the order handed to WhatsApp
func (es *EmailService) SendOrderNotification(ctx context.Context, order *cart.Order, message, whatsappURL string) error {
	if !es.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("הזמנה חדשה %s - %s", order.Reference, order.Customer.Name)

	lines := strings.Split(html.EscapeString(message), "\n")
	body := fmt.Sprintf(`<!DOCTYPE html>
<html dir="rtl" lang="he">
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #8B5E34;">%s</h2>
		<p>%s</p>
		<p><a href="%s">פתיחה בוואטסאפ</a></p>
	</div>
</body>
</html>`, html.EscapeString(subject), strings.Join(lines, "<br>"), html.EscapeString(whatsappURL))

	if err := es.SendEmail(ctx, es.cfg.Email.OrderNotifyTo, subject, body); err != nil {
		return err
	}

	es.logger.Info("Order notification sent", gecho.Field("reference", order.Reference))
	return nil
}
