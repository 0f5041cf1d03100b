package emailsvc

import (
	"context"
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/services/logger"
)

type stubService struct {
	err   error
	calls int
}

func (s *stubService) Send(context.Context, *core.EmailMessage) error {
	s.calls++
	return s.err
}

func newMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:      []mail.Address{{Address: "office@sig-imobiliare.test"}},
		Subject: "Test",
		BodyStr: "Bună ziua",
	}
}

func TestFallbackService_Send(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewTestLogger(conf)
	ctx := context.Background()

	first, second := &stubService{err: errors.New("smtp down")}, &stubService{}
	svc := NewFallbackService(logger, first, second)
	require.NoError(t, svc.Send(ctx, newMessage()))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)

	second.err = errors.New("sendgrid down")
	assert.Equal(t, second.err, svc.Send(ctx, newMessage()), "the last error is returned")

	assert.Equal(t, core.ErrMailNotConfigured, NewFallbackService(logger).Send(ctx, newMessage()))
}

func TestFallbackService_Send_canceled(t *testing.T) {
	conf := core.NewTestConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first, second := &stubService{err: errors.New("smtp down")}, &stubService{}
	err := NewFallbackService(logsvc.NewTestLogger(conf), first, second).Send(ctx, newMessage())
	assert.Error(t, err)
	assert.Equal(t, 0, second.calls)
}

func TestNewService(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewTestLogger(conf)

	_, ok := NewService(conf, logger).(*consoleService)
	assert.True(t, ok, "debug mode without transports logs emails")

	conf.Debug = false
	assert.Equal(t, core.ErrMailNotConfigured, NewService(conf, logger).Send(context.Background(), newMessage()))

	conf.Mail.SMTP = core.SMTPConfig{Host: "smtp.sig.ro", User: "office@sig.ro", Password: "secret"}
	_, ok = NewService(conf, logger).(*smtpService)
	assert.True(t, ok)

	conf.Mail.SendgridApiKey = "SG.key"
	_, ok = NewService(conf, logger).(*fallbackService)
	assert.True(t, ok)
}

func TestConsoleServiceMock(t *testing.T) {
	mock := NewConsoleServiceMock(core.NewTestConfig())
	ctx := context.Background()

	require.NoError(t, mock.Send(ctx, newMessage()))
	msgs := mock.SentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Bună ziua", msgs[0].TextContent)

	assert.Equal(t, errNoRecipients, mock.Send(ctx, &core.EmailMessage{BodyStr: "x"}))

	mock.Reset()
	assert.Empty(t, mock.SentMessages())
}
