package mailer

import (
	"fmt"
	"log"
	"time"

	"github.com/wneessen/go-mail"
)

//go:generate mockgen -destination=../../internal/domain/mocks/mock_mailer.go -package=mocks github.com/Callhook/callhook/pkg/mailer Mailer

// Mailer is the interface for sending operator emails
type Mailer interface {
	// SendDeadLetterAlert notifies an operator that a tenant crossed the
	// dead-letter threshold within the alert window
	SendDeadLetterAlert(email, tenantID string, deadLetters int64, threshold int) error
}

// Config holds the configuration for the mailer
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// SMTPMailer implements the Mailer interface using SMTP
type SMTPMailer struct {
	config   *Config
	testMode bool
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		testMode: false,
	}
}

// NewTestSMTPMailer creates a new SMTP mailer in test mode (won't connect to SMTP server)
func NewTestSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		testMode: true,
	}
}

// SendDeadLetterAlert sends a notification when a tenant crosses the dead-letter threshold
func (m *SMTPMailer) SendDeadLetterAlert(email, tenantID string, deadLetters int64, threshold int) error {
	// Create a new message
	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())

	// Set sender and recipient
	if err := msg.FromFormat(m.config.FromName, m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set email from address: %w", err)
	}

	if err := msg.To(email); err != nil {
		return fmt.Errorf("failed to set email recipient: %w", err)
	}

	// Set subject
	subject := fmt.Sprintf("🚨 Webhook Dead Letters - tenant %s", tenantID)
	msg.Subject(subject)

	// Create HTML content
	htmlBody := fmt.Sprintf(`
	<html>
		<body>
			<h1 style="color: #d32f2f;">🚨 Webhook Deliveries Dead-Lettered</h1>
			<p>Hello,</p>
			<p>Tenant <strong>%s</strong> has accumulated <strong>%d</strong> dead-lettered webhook deliveries in the last 24 hours (alert threshold: %d).</p>

			<div style="background-color: #fff3cd; border: 1px solid #ffeaa7; padding: 15px; border-radius: 5px; margin: 20px 0;">
				<h3 style="color: #856404; margin-top: 0;">What to check:</h3>
				<p style="margin-bottom: 0; color: #856404;">Inspect the delivery attempts for this tenant. A partner endpoint returning 4xx responses, or an unreachable URL, is the usual cause. Dead-lettered deliveries can be replayed once the endpoint recovers.</p>
			</div>

			<p>Best regards,<br>The Callhook Team</p>
		</body>
	</html>`, tenantID, deadLetters, threshold)

	// Set alternative body parts
	plainBody := fmt.Sprintf(`
🚨 WEBHOOK DELIVERIES DEAD-LETTERED

Hello,

Tenant %s has accumulated %d dead-lettered webhook deliveries in the last 24 hours (alert threshold: %d).

Inspect the delivery attempts for this tenant. A partner endpoint returning
4xx responses, or an unreachable URL, is the usual cause. Dead-lettered
deliveries can be replayed once the endpoint recovers.

Best regards,
The Callhook Team`, tenantID, deadLetters, threshold)

	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	msg.AddAlternativeString(mail.TypeTextPlain, plainBody)

	// Create SMTP client
	client, err := m.createSMTPClient()
	if err != nil {
		return err
	}

	// For testing - log information if client is nil
	if client == nil {
		log.Printf("Sending dead-letter alert to: %s", email)
		log.Printf("From: %s <%s>", m.config.FromName, m.config.FromEmail)
		log.Printf("Subject: %s", subject)
		log.Printf("Tenant: %s", tenantID)
		log.Printf("Dead letters: %d (threshold %d)", deadLetters, threshold)
		return nil
	}

	// Send the email
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send dead-letter alert email: %w", err)
	}

	return nil
}

// createSMTPClient creates and configures a new SMTP client
func (m *SMTPMailer) createSMTPClient() (*mail.Client, error) {
	// In test mode, return nil client to avoid SMTP connections
	if m.testMode {
		return nil, nil
	}

	// Build client options
	clientOptions := []mail.Option{
		mail.WithPort(m.config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10 * time.Second),
	}

	// Only add authentication if username and password are provided
	// This allows for unauthenticated SMTP servers (e.g., local relays, port 25)
	if m.config.SMTPUsername != "" && m.config.SMTPPassword != "" {
		clientOptions = append(clientOptions,
			mail.WithUsername(m.config.SMTPUsername),
			mail.WithPassword(m.config.SMTPPassword),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
		)
	}

	client, err := mail.NewClient(m.config.SMTPHost, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return client, nil
}

// ConsoleMailer is a development implementation that just logs emails
type ConsoleMailer struct{}

// NewConsoleMailer creates a new console mailer for development
func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

// SendDeadLetterAlert logs the dead-letter alert details to console
func (m *ConsoleMailer) SendDeadLetterAlert(email, tenantID string, deadLetters int64, threshold int) error {
	fmt.Println("==============================================================")
	fmt.Println("                 WEBHOOK DEAD-LETTER ALERT                    ")
	fmt.Println("==============================================================")
	fmt.Printf("To: %s\n", email)
	fmt.Printf("Subject: 🚨 Webhook Dead Letters - tenant %s\n\n", tenantID)
	fmt.Println("Email Content:")
	fmt.Printf("🚨 WEBHOOK DELIVERIES DEAD-LETTERED\n\n")
	fmt.Printf("Hello,\n\n")
	fmt.Printf("Tenant %s has accumulated %d dead-lettered webhook deliveries in the last 24 hours (alert threshold: %d).\n\n", tenantID, deadLetters, threshold)
	fmt.Printf("Inspect the delivery attempts for this tenant and replay once the\n")
	fmt.Printf("partner endpoint recovers.\n\n")
	fmt.Printf("Best regards,\nThe Callhook Team\n\n")
	fmt.Println("==============================================================")

	return nil
}
