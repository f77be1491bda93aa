package notify

import (
	"fmt"
	"log"
	"strings"

	"gopkg.in/gomail.v2"
	"stuywatch/config"
	"stuywatch/models"
)

// EmailNotifier sends one plain-text message per batch of new apartments to
// every configured recipient.
type EmailNotifier struct {
	cfg config.SMTPConfig
}

func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(apartments []models.Apartment) error {
	if len(apartments) == 0 {
		return nil
	}

	subject := fmt.Sprintf("🏠 %d New StuyTown Apartment(s) Found!", len(apartments))
	if err := n.send(subject, buildBody(apartments)); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}

	log.Printf("Email notification sent for %d new apartments to %d recipients", len(apartments), len(n.cfg.To))
	return nil
}

func (n *EmailNotifier) Test() error {
	body := "This is a test email from stuywatch.\n\n" +
		"If you received this, email notifications are working correctly!"
	if err := n.send("🧪 stuywatch Test Email", body); err != nil {
		return fmt.Errorf("send test email: %w", err)
	}

	log.Printf("Test email sent to %d recipients", len(n.cfg.To))
	return nil
}

func (n *EmailNotifier) send(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.From, n.cfg.Password)
	return d.DialAndSend(m)
}

func buildBody(apartments []models.Apartment) string {
	var b strings.Builder
	b.WriteString("New apartments available at StuyTown:\n\n")

	for _, apt := range apartments {
		fmt.Fprintf(&b, "📍 %s\n", apt.Address)
		fmt.Fprintf(&b, "💰 %s\n", apt.Price)
		fmt.Fprintf(&b, "🛏️ %s\n", apt.Bedrooms)
		fmt.Fprintf(&b, "🕐 Discovered: %s\n", apt.DiscoveredAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "🔗 %s\n\n", apt.URL)
	}

	return b.String()
}
