package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"brainrank/internal/config"
)

// SendEmail delivers a plain-text message through the configured SMTP relay.
// Port 465 relays get an implicit-TLS fallback when the plain dial fails.
func SendEmail(cfg config.SMTPConfig, appName, to, subject, body string) error {
	if !cfg.Configured() {
		return fmt.Errorf("SMTP not configured")
	}

	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	msg := []byte("From: \"" + appName + "\" <" + cfg.From + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(addr, auth, cfg.From, []string{to}, msg); err != nil {
		if cfg.Port == "465" {
			return sendImplicitTLS(cfg, addr, auth, to, msg)
		}
		return err
	}
	return nil
}

func sendImplicitTLS(cfg config.SMTPConfig, addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()
	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		return err
	}
	return wc.Close()
}

// PasswordResetBody renders the reset email sent from the forgot-password
// flow. The link expires after one hour.
func PasswordResetBody(appName, resetLink string) string {
	return fmt.Sprintf(
		"You requested a password reset for your %s account.\n\n"+
			"Click the link below to reset your password:\n\n%s\n\n"+
			"This link expires in 1 hour. If you didn't request this, you can safely ignore this email.\n\n"+
			"— %s", appName, resetLink, appName)
}
