// Package email, uygulama genelinde email gönderimi için soyutlama katmanı sağlar.
//
// EmailSender interface'i ile gönderim detayları soyutlanır (Dependency
// Inversion). Şu anki implementasyon Resend API kullanır; farklı bir
// sağlayıcıya geçmek için yeni bir implementasyon yazıp constructor'da
// değiştirmek yeterli. Testler ve API key'siz development ortamı için
// LogSender implementasyonu vardır.
package email

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v3"
)

// EmailSender, email gönderimi için interface.
// Service katmanı bu interface'e bağımlıdır, concrete Resend implementasyonuna değil.
type EmailSender interface {
	// SendVerification, kullanıcıya hesap doğrulama linki içeren email gönderir.
	// toEmail: alıcı adres, token: plaintext doğrulama token'ı (link'e gömülür).
	SendVerification(ctx context.Context, toEmail, token string) error
}

// resendSender, Resend API ile email gönderen EmailSender implementasyonu.
type resendSender struct {
	client    *resend.Client
	fromEmail string // Gönderici adresi (ör: noreply@tovi.app)
	appURL    string // Uygulamanın public URL'i — doğrulama linkinde kullanılır
}

// NewResendSender, Resend API client'ı ile yeni bir EmailSender oluşturur.
//
// apiKey: Resend dashboard'dan alınan API key (re_xxxxxxxx formatında).
// fromEmail: Resend'de doğrulanmış domain altında olmalı.
func NewResendSender(apiKey, fromEmail, appURL string) EmailSender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

// SendVerification, hesap doğrulama email'i gönderir.
//
// Link format: {appURL}/api/v1/auth/verify/{token}
// Token email'de plaintext bulunur; kullanıcı linke tıkladığında
// verify endpoint'i token'ı path'ten okur.
func (s *resendSender) SendVerification(ctx context.Context, toEmail, token string) error {
	verifyLink := fmt.Sprintf("%s/api/v1/auth/verify/%s", s.appURL, token)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#1a1a2e;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#1a1a2e;padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#16213e;border-radius:8px;padding:40px;">
          <tr>
            <td>
              <h1 style="color:#e2e8f0;font-size:24px;margin:0 0 8px 0;">tovi</h1>
              <h2 style="color:#e2e8f0;font-size:18px;margin:0 0 24px 0;">Verify Your Email</h2>
              <p style="color:#94a3b8;font-size:15px;line-height:1.6;margin:0 0 24px 0;">
                Thanks for signing up. Click the button below to verify your email address and activate your account.
              </p>
              <table cellpadding="0" cellspacing="0" style="margin:0 0 24px 0;">
                <tr>
                  <td style="background-color:#6366f1;border-radius:6px;padding:12px 32px;">
                    <a href="%s" style="color:#ffffff;text-decoration:none;font-size:15px;font-weight:600;">
                      Verify Email
                    </a>
                  </td>
                </tr>
              </table>
              <p style="color:#64748b;font-size:13px;line-height:1.6;margin:0 0 16px 0;">
                This link will expire in 24 hours. If you didn't create an account, you can safely ignore this email.
              </p>
              <p style="color:#475569;font-size:13px;line-height:1.6;margin:0;word-break:break-all;">
                If the button doesn't work, copy and paste this link:<br>
                <a href="%s" style="color:#6366f1;">%s</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, verifyLink, verifyLink, verifyLink)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("tovi <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: "Verify Your Email — tovi",
		Html:    html,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// logSender, email göndermek yerine log'a yazan EmailSender.
// RESEND_API_KEY tanımlı olmayan development ortamında kullanılır —
// doğrulama token'ı log'dan kopyalanıp elle verify edilebilir.
type logSender struct{}

// NewLogSender, constructor.
func NewLogSender() EmailSender {
	return &logSender{}
}

func (s *logSender) SendVerification(_ context.Context, toEmail, token string) error {
	log.Printf("[email] verification email suppressed (no API key) to=%s token=%s", toEmail, token)
	return nil
}
