// internal/mailer/mailer.go
package mailer

import (
	"context"

	"mangotango-admin/internal/common/config"
	"mangotango-admin/internal/common/logger"
	"mangotango-admin/internal/common/validation"
	"mangotango-admin/internal/models"
)

// Message is one rendered email ready for a transport.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers a rendered message. Implementations: SMTP and SES.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// SMSSender delivers a short text message. Optional, config-gated.
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

const (
	approvalSubject  = "Your MangoTango Technician Account Has Been Approved"
	rejectionSubject = "Update Regarding Your MangoTango Technician Application"
)

// Mailer renders and dispatches technician status notifications. The bool
// result mirrors the notification contract: false without error means the
// message was not sent; a non-nil error carries the transport failure.
type Mailer struct {
	cfg       config.MailConfig
	transport Transport
	sms       SMSSender
	logger    logger.Logger
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithSMS attaches an SMS channel used for approvals when enabled.
func WithSMS(sms SMSSender) Option {
	return func(m *Mailer) { m.sms = sms }
}

func New(cfg config.MailConfig, transport Transport, log logger.Logger, opts ...Option) *Mailer {
	m := &Mailer{
		cfg:       cfg,
		transport: transport,
		logger:    log.WithFields(map[string]interface{}{"component": "mailer"}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SendApproval dispatches the account-approved email, plus an SMS when the
// SMS channel is enabled and the record carries a usable phone number.
func (m *Mailer) SendApproval(ctx context.Context, rec models.TechnicianRecord) (bool, error) {
	if !validation.ValidateEmail(rec.Email) {
		m.logger.Warn("approval email skipped, invalid address", map[string]interface{}{
			"recordId": rec.ID,
			"email":    rec.Email,
		})
		return false, nil
	}

	msg := Message{
		To:      rec.Email,
		Subject: approvalSubject,
		HTML:    renderApprovalHTML(rec, m.cfg),
		Text:    renderApprovalText(rec, m.cfg),
	}
	if err := m.transport.Send(ctx, msg); err != nil {
		return false, err
	}

	m.logger.Info("approval email sent", map[string]interface{}{
		"recordId": rec.ID,
		"email":    rec.Email,
	})

	// SMS is best effort; an SMS failure never fails the approval.
	if m.cfg.SMS.Enabled && m.sms != nil && validation.ValidatePhone(rec.PhoneNumber) {
		if err := m.sms.Send(ctx, rec.PhoneNumber, renderApprovalSMS(rec)); err != nil {
			m.logger.WithError(err).Warn("approval SMS failed", map[string]interface{}{
				"recordId": rec.ID,
			})
		}
	}
	return true, nil
}

// SendRejection dispatches the application-declined email without a stated
// reason. Satisfies the batch notifier contract.
func (m *Mailer) SendRejection(ctx context.Context, rec models.TechnicianRecord) (bool, error) {
	return m.SendRejectionWithReason(ctx, rec, "")
}

// SendRejectionWithReason dispatches the application-declined email; the
// reason block is rendered only when a reason is given.
func (m *Mailer) SendRejectionWithReason(ctx context.Context, rec models.TechnicianRecord, reason string) (bool, error) {
	if !validation.ValidateEmail(rec.Email) {
		m.logger.Warn("rejection email skipped, invalid address", map[string]interface{}{
			"recordId": rec.ID,
			"email":    rec.Email,
		})
		return false, nil
	}

	msg := Message{
		To:      rec.Email,
		Subject: rejectionSubject,
		HTML:    renderRejectionHTML(rec, reason, m.cfg),
		Text:    renderRejectionText(rec, reason, m.cfg),
	}
	if err := m.transport.Send(ctx, msg); err != nil {
		return false, err
	}

	m.logger.Info("rejection email sent", map[string]interface{}{
		"recordId": rec.ID,
		"email":    rec.Email,
	})
	return true, nil
}
