package emailsvc

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"

	"github.com/sigimobiliare/sig/core"
)

const (
	smtpImplicitTLSPort = 465
	smtpTimeout         = 15 * time.Second
)

type smtpService struct {
	conf       *core.Config
	host       string
	port       int
	user       string
	password   string
	from       mail.Address
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config, logger core.Logger) core.EmailService {
	port := conf.Mail.SMTP.Port
	if port == 0 {
		port = smtpImplicitTLSPort
	}
	return &smtpService{
		conf:       conf,
		host:       conf.Mail.SMTP.Host,
		port:       port,
		user:       conf.Mail.SMTP.User,
		password:   conf.Mail.SMTP.Password,
		from:       conf.FromAddress(),
		subjPrefix: subjectPrefix(conf),
		logger:     logger,
	}
}

func (svc *smtpService) newClient() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(svc.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(svc.user),
		gomail.WithPassword(svc.password),
		gomail.WithTimeout(smtpTimeout),
	}
	if svc.port == smtpImplicitTLSPort {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	return gomail.NewClient(svc.host, opts...)
}

func (svc *smtpService) Send(ctx context.Context, msg *core.EmailMessage) error {
	if err := render(msg, svc.conf); err != nil {
		return err
	}
	m, err := newMIMEMessage(svc.from, svc.subjPrefix, msg)
	if err != nil {
		return err
	}

	svc.logger.Info("smtp configured", map[string]interface{}{
		"host":   svc.host,
		"port":   svc.port,
		"secure": svc.port == smtpImplicitTLSPort,
		"user":   core.RedactEmail(svc.user),
		"from":   core.RedactEmail(svc.from.Address),
	})

	client, err := svc.newClient()
	if err != nil {
		return errors.Wrap(err, "creating smtp client")
	}
	if err = client.DialWithContext(ctx); err != nil {
		svc.logger.Error("smtp verify failed", err)
		return errors.Wrap(err, "connecting to smtp server")
	}
	defer func() { _ = client.Close() }()

	if err = client.Send(m); err != nil {
		return errors.Wrap(err, "sending email")
	}
	return nil
}
