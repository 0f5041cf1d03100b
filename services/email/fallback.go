package emailsvc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
)

// fallbackService tries each transport in order until one accepts the message.
type fallbackService struct {
	services []core.EmailService
	logger   core.Logger
}

var _ core.EmailService = (*fallbackService)(nil)

func NewFallbackService(logger core.Logger, services ...core.EmailService) core.EmailService {
	return &fallbackService{services: services, logger: logger}
}

func (svc *fallbackService) Send(ctx context.Context, msg *core.EmailMessage) error {
	err := error(core.ErrMailNotConfigured)
	for i, s := range svc.services {
		if err = s.Send(ctx, msg); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return errors.Wrap(err, "sending email")
		}
		svc.logger.Warn("email transport failed, trying the next one", err, map[string]interface{}{"transport": i})
	}
	return err
}

// unavailableService is used when no transport is configured outside debug mode.
type unavailableService struct{}

var _ core.EmailService = unavailableService{}

func (unavailableService) Send(context.Context, *core.EmailMessage) error {
	return core.ErrMailNotConfigured
}

// NewService picks the transports configured in conf: SMTP, then SendGrid.
// With none configured the console transport is used in debug mode, otherwise sending fails
// with core.ErrMailNotConfigured.
func NewService(conf *core.Config, logger core.Logger) core.EmailService {
	services := make([]core.EmailService, 0, 2)
	if conf.Mail.SMTPConfigured() {
		services = append(services, NewSMTPService(conf, logger))
	}
	if conf.Mail.SendgridApiKey != "" {
		services = append(services, NewSendgridService(conf, logger))
	}

	switch len(services) {
	case 0:
		if conf.Debug {
			logger.Info("mail transport not configured; using console transport")
			return NewConsoleService(conf, logger)
		}
		return unavailableService{}
	case 1:
		return services[0]
	default:
		return NewFallbackService(logger, services...)
	}
}
