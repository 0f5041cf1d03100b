package emailsvc

import (
	"net/mail"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"

	"github.com/sigimobiliare/sig/core"
)

var (
	errNoRecipients = errors.New("email has no recipients")
	errNoContent    = errors.New("email has no content")
)

// render fills the message contents and checks it can be sent.
func render(msg *core.EmailMessage, conf *core.Config) error {
	if err := msg.Render(conf); err != nil {
		return errors.Wrap(err, "rendering email")
	}
	if !msg.HasRecipients() {
		return errNoRecipients
	}
	if !msg.HasContent() {
		return errNoContent
	}
	return nil
}

// newMIMEMessage builds the MIME message of a rendered email.
func newMIMEMessage(from mail.Address, subjPrefix string, msg *core.EmailMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(from.String()); err != nil {
		return nil, errors.Wrap(err, "setting from")
	}
	for _, to := range msg.To {
		if err := m.AddTo(to.String()); err != nil {
			return nil, errors.Wrap(err, "adding recipient")
		}
	}
	if msg.ReplyTo != nil {
		if err := m.ReplyTo(msg.ReplyTo.String()); err != nil {
			return nil, errors.Wrap(err, "setting reply-to")
		}
	}
	m.Subject(subjPrefix + msg.Subject)
	m.SetDate()
	m.SetMessageID()

	if msg.TextContent != "" {
		m.SetBodyString(gomail.TypeTextPlain, msg.TextContent)
		if msg.HTMLContent != "" {
			m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLContent)
		}
	} else {
		m.SetBodyString(gomail.TypeTextHTML, msg.HTMLContent)
	}
	return m, nil
}

func subjectPrefix(conf *core.Config) string {
	return "[" + conf.AppName + "] "
}
