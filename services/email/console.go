package emailsvc

import (
	"context"
	"net/mail"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
)

// consoleService writes the whole MIME message to the log instead of sending it.
type consoleService struct {
	conf          *core.Config
	from          mail.Address
	subjPrefix    string
	logger        core.Logger
	disableOutput bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config, logger core.Logger) core.EmailService {
	return &consoleService{
		conf:       conf,
		from:       conf.FromAddress(),
		subjPrefix: subjectPrefix(conf),
		logger:     logger,
	}
}

func (svc *consoleService) Send(ctx context.Context, msg *core.EmailMessage) error {
	if err := render(msg, svc.conf); err != nil {
		return err
	}
	m, err := newMIMEMessage(svc.from, svc.subjPrefix, msg)
	if err != nil {
		return err
	}
	body := new(strings.Builder)
	if _, err = m.WriteTo(body); err != nil {
		return errors.Wrap(err, "writing email")
	}
	if !svc.disableOutput {
		svc.logger.Info("email (console transport):\n" + body.String())
	}
	return nil
}

// ConsoleServiceMock records the messages it is asked to send.
type ConsoleServiceMock struct {
	consoleService

	mu   sync.Mutex
	sent []core.EmailMessage
	err  error
}

var _ core.EmailService = (*ConsoleServiceMock)(nil)

func NewConsoleServiceMock(conf *core.Config) *ConsoleServiceMock {
	return &ConsoleServiceMock{
		consoleService: consoleService{
			conf:          conf,
			from:          conf.FromAddress(),
			subjPrefix:    subjectPrefix(conf),
			disableOutput: true,
		},
	}
}

func (svc *ConsoleServiceMock) Send(ctx context.Context, msg *core.EmailMessage) error {
	svc.mu.Lock()
	failErr := svc.err
	svc.mu.Unlock()
	if failErr != nil {
		return failErr
	}

	if err := svc.consoleService.Send(ctx, msg); err != nil {
		return err
	}
	svc.mu.Lock()
	svc.sent = append(svc.sent, *msg)
	svc.mu.Unlock()
	return nil
}

// FailWith makes the next sends fail with err; nil restores normal behavior.
func (svc *ConsoleServiceMock) FailWith(err error) {
	svc.mu.Lock()
	svc.err = err
	svc.mu.Unlock()
}

func (svc *ConsoleServiceMock) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.EmailMessage(nil), svc.sent...)
}

func (svc *ConsoleServiceMock) Reset() {
	svc.mu.Lock()
	svc.sent = nil
	svc.err = nil
	svc.mu.Unlock()
}
