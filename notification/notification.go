package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AlexObbs/shopp/models"
	"github.com/AlexObbs/shopp/repository"
	"github.com/AlexObbs/shopp/sender"
)

// TipNotifier dispatches tip notifications. Dispatch is best-effort
// relative to the HTTP response already computed for the payer: failures
// are logged and never propagate.
type TipNotifier interface {
	NotifyTipReceived(ctx context.Context, rec *models.TipRecord, recipientEmail string)
}

type tipMailData struct {
	Amount        string
	Currency      string
	RecipientName string
	SenderName    string
	Message       string
}

var guideTipTmpl = template.Must(template.New("guideTip").Parse(`
<html>
  <body>
    <h2>You received a tip!</h2>
    <p>Hi {{.RecipientName}},</p>
    <p><strong>{{.SenderName}}</strong> sent you a tip of <strong>{{.Amount}} {{.Currency}}</strong>.</p>
    {{if .Message}}<blockquote>{{.Message}}</blockquote>{{end}}
    <p>Thank you for the great work!</p>
  </body>
</html>`))

var companyTipTmpl = template.Must(template.New("companyTip").Parse(`
<html>
  <body>
    <h2>New company tip</h2>
    <p><strong>{{.SenderName}}</strong> tipped the company pool <strong>{{.Amount}} {{.Currency}}</strong>.</p>
    {{if .Message}}<blockquote>{{.Message}}</blockquote>{{end}}
  </body>
</html>`))

var adminCopyTmpl = template.Must(template.New("adminCopy").Parse(`
<html>
  <body>
    <h2>Tip received</h2>
    <p>Recipient: {{.RecipientName}}</p>
    <p>Amount: {{.Amount}} {{.Currency}}</p>
    <p>From: {{.SenderName}}</p>
    {{if .Message}}<p>Message: {{.Message}}</p>{{end}}
  </body>
</html>`))

// Service renders and dispatches tip emails and appends a log entry to the
// document store for every attempt.
type Service struct {
	sender      sender.EmailSender
	emailLog    repository.EmailLogRepository
	adminEmails []string
	logger      *zap.Logger
}

func NewService(emailSender sender.EmailSender, emailLog repository.EmailLogRepository, adminEmails []string, logger *zap.Logger) *Service {
	return &Service{
		sender:      emailSender,
		emailLog:    emailLog,
		adminEmails: adminEmails,
		logger:      logger,
	}
}

// NotifyTipReceived sends the recipient email (guide tips only, when an
// address is known) plus one admin copy per configured address. Each admin
// address is an independent target with no per-recipient retry.
func (s *Service) NotifyTipReceived(ctx context.Context, rec *models.TipRecord, recipientEmail string) {
	if s.sender == nil {
		s.logger.Info("Email sender not configured, skipping tip notification",
			zap.String("session_id", rec.SessionID),
		)
		return
	}

	data := tipMailData{
		Amount:        fmt.Sprintf("%.2f", rec.Amount),
		Currency:      strings.ToUpper(rec.Currency),
		RecipientName: rec.RecipientName,
		SenderName:    senderDisplayName(rec),
		Message:       rec.Message,
	}

	if rec.RecipientType == models.RecipientTypeGuide && recipientEmail != "" {
		body, err := render(guideTipTmpl, data)
		if err != nil {
			s.logger.Error("Failed to render guide tip email", zap.Error(err))
		} else {
			s.dispatch(ctx, recipientEmail, "You received a tip!", body, models.NotificationTypeGuideTip, rec.SessionID)
		}
	}

	adminTmpl := adminCopyTmpl
	adminType := models.NotificationTypeAdminCopy
	if rec.RecipientType == models.RecipientTypeCompany {
		adminTmpl = companyTipTmpl
		adminType = models.NotificationTypeCompanyTip
	}

	body, err := render(adminTmpl, data)
	if err != nil {
		s.logger.Error("Failed to render admin tip email", zap.Error(err))
		return
	}
	for _, admin := range s.adminEmails {
		s.dispatch(ctx, admin, "Tip received", body, adminType, rec.SessionID)
	}
}

func (s *Service) dispatch(ctx context.Context, to, subject, body, notifType, sessionID string) {
	entry := &models.EmailNotification{
		Recipient: to,
		Type:      notifType,
		Channel:   models.ChannelEmail,
		Status:    models.NotificationStatusSent,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.sender.SendEmail(ctx, to, subject, body); err != nil {
		s.logger.Error("Failed to send tip email",
			zap.String("recipient", to),
			zap.String("type", notifType),
			zap.Error(err),
		)
		entry.Status = models.NotificationStatusFailed
		entry.Error = err.Error()
	}

	if s.emailLog != nil {
		if err := s.emailLog.Append(ctx, entry); err != nil {
			s.logger.Warn("Failed to append email log entry", zap.Error(err))
		}
	}
}

func senderDisplayName(rec *models.TipRecord) string {
	if rec.SenderName != "" {
		return rec.SenderName
	}
	return "A customer"
}

func render(tmpl *template.Template, data tipMailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
