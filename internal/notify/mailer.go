// README: SMTP mailer for booking notifications; fire-and-forget by contract.
package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"fleetrent/internal/config"
	"fleetrent/internal/modules/booking"
)

// Mailer sends booking lifecycle emails over SMTP. Send failures are
// logged and swallowed; they must never change the outcome of the
// operation that triggered them.
type Mailer struct {
	cfg config.SMTPConfig
	log *zap.Logger

	// recipient resolves a customer id to an email address.
	recipient func(ctx context.Context, customerID string) (string, error)
}

func NewMailer(cfg config.SMTPConfig, log *zap.Logger, recipient func(ctx context.Context, customerID string) (string, error)) *Mailer {
	return &Mailer{cfg: cfg, log: log, recipient: recipient}
}

func (m *Mailer) BookingCreated(ctx context.Context, b *booking.Booking) {
	subject := "Booking received"
	body := fmt.Sprintf(
		"Hello,\n\nYour booking %s is confirmed as received.\n\nPickup: %s\nFrom: %s\nTo: %s\nTotal: %.2f %s\n\nFleetRent Team\n",
		b.ID, b.PickupLocation,
		b.StartDate.Format("2006-01-02 15:04"), b.EndDate.Format("2006-01-02 15:04"),
		float64(b.Price.Total.Amount)/100, b.Price.Total.Currency,
	)
	m.send(ctx, string(b.CustomerID), subject, body)
}

func (m *Mailer) BookingCancelled(ctx context.Context, b *booking.Booking) {
	reason := ""
	if b.CancelReason != nil {
		reason = *b.CancelReason
	}
	subject := "Booking cancelled"
	body := fmt.Sprintf(
		"Hello,\n\nYour booking %s has been cancelled.\nReason: %s\n\nFleetRent Team\n",
		b.ID, reason,
	)
	m.send(ctx, string(b.CustomerID), subject, body)
}

func (m *Mailer) send(ctx context.Context, customerID, subject, body string) {
	if m.cfg.Host == "" || m.cfg.Username == "" {
		m.log.Debug("smtp not configured, dropping notification", zap.String("subject", subject))
		return
	}
	to, err := m.recipient(ctx, customerID)
	if err != nil {
		m.log.Warn("notification recipient lookup failed", zap.String("customer_id", customerID), zap.Error(err))
		return
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}
	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.FromName, from, to, subject, body))

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		m.log.Warn("notification send failed", zap.String("to", to), zap.Error(err))
	}
}
