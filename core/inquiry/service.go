package inquiry

import (
	"context"
	"net/mail"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
)

// DefaultRecipient receives the inquiries when no valid recipient is configured.
const DefaultRecipient = "office@sigimobiliarecluj.ro"

const (
	contactTemplate = "contact"
	viewingTemplate = "viewing"
	viewingSubject  = "Programare vizionare"
)

type (
	ServiceInterface interface {
		SendContact(ctx context.Context, req ContactRequest) error
		RequestViewing(ctx context.Context, req ViewingRequest) error
		// Recipient is the address inquiries are sent to, shown to visitors when mail is down.
		Recipient() string
	}

	Service struct {
		mailSvc   core.EmailService
		recipient mail.Address
		logger    core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		mailSvc:   mailSvc,
		recipient: mail.Address{Address: resolveRecipient(conf.Mail.ContactRecipient)},
		logger:    logger,
	}
}

func resolveRecipient(configured string) string {
	if configured = core.CleanString(configured); core.IsEmailLike(configured) {
		return configured
	}
	return DefaultRecipient
}

func (svc *Service) Recipient() string {
	return svc.recipient.Address
}

// SendContact validates then mails a contact request. A valid sender email becomes the reply-to.
func (svc *Service) SendContact(ctx context.Context, req ContactRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{svc.recipient},
		Subject:      "Mesaj nou (" + req.Source + ")",
		TemplateName: contactTemplate,
		TemplateData: req,
	}
	if req.Email != "" && core.IsEmailLike(req.Email) {
		msg.ReplyTo = &mail.Address{Name: req.Name, Address: req.Email}
	}
	return svc.dispatch(ctx, "contact", msg)
}

// RequestViewing validates then mails a viewing request. The reply-to is only set for valid emails.
func (svc *Service) RequestViewing(ctx context.Context, req ViewingRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{svc.recipient},
		Subject:      viewingSubject,
		TemplateName: viewingTemplate,
		TemplateData: req,
	}
	if req.Email != "" && core.IsEmailLike(req.Email) {
		msg.ReplyTo = &mail.Address{Name: req.Name, Address: req.Email}
	}
	return svc.dispatch(ctx, "vizionare", msg)
}

func (svc *Service) dispatch(ctx context.Context, kind string, msg *core.EmailMessage) error {
	requestID := uuid.NewString()
	extras := map[string]interface{}{
		"requestId": requestID,
		"to":        core.RedactEmail(svc.recipient.Address),
	}
	if msg.ReplyTo != nil {
		extras["replyTo"] = core.RedactEmail(msg.ReplyTo.Address)
	}
	svc.logger.Info("["+kind+"] email dispatch", extras)

	if err := svc.mailSvc.Send(ctx, msg); err != nil {
		if _, ok := core.AsUnavailable(err); ok {
			svc.logger.Error("["+kind+"] mail transport not configured", map[string]interface{}{"requestId": requestID})
			return err
		}
		svc.logger.Error("["+kind+"] email send failed", err, map[string]interface{}{"requestId": requestID})
		return errors.Wrap(err, "sending "+kind+" email")
	}
	svc.logger.Info("["+kind+"] email sent", map[string]interface{}{"requestId": requestID})
	return nil
}
