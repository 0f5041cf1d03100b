package inquiry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/inquiry"
	"github.com/sigimobiliare/sig/services/email"
	"github.com/sigimobiliare/sig/services/logger"
)

func newService(t *testing.T, conf *core.Config) (*inquiry.Service, *emailsvc.ConsoleServiceMock) {
	t.Helper()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	return inquiry.NewService(mailSvc, conf, logsvc.NewTestLogger(conf)), mailSvc
}

func TestService_Recipient(t *testing.T) {
	conf := core.NewTestConfig()
	svc, _ := newService(t, conf)
	assert.Equal(t, "office@sig-imobiliare.test", svc.Recipient())

	conf.Mail.ContactRecipient = "not an email"
	svc, _ = newService(t, conf)
	assert.Equal(t, inquiry.DefaultRecipient, svc.Recipient())
}

func TestService_SendContact(t *testing.T) {
	svc, mailSvc := newService(t, core.NewTestConfig())
	ctx := context.Background()

	err := svc.SendContact(ctx, inquiry.ContactRequest{Name: "Ana"})
	_, ok := err.(*core.ValidationError)
	assert.True(t, ok, "got %v", err)
	assert.Empty(t, mailSvc.SentMessages())

	require.NoError(t, svc.SendContact(ctx, inquiry.ContactRequest{
		Name:         "Ana Pop",
		Email:        "ana@test.ro",
		Phone:        "0740000000",
		Neighborhood: "Zorilor",
		Source:       "quick-search",
	}))
	msgs := mailSvc.SentMessages()
	require.Len(t, msgs, 1)
	msg := msgs[0]
	assert.Equal(t, "Mesaj nou (quick-search)", msg.Subject)
	assert.Equal(t, "office@sig-imobiliare.test", msg.To[0].Address)
	require.NotNil(t, msg.ReplyTo)
	assert.Equal(t, "ana@test.ro", msg.ReplyTo.Address)
	assert.Contains(t, msg.TextContent, "Cartier: Zorilor")
	assert.Contains(t, msg.TextContent, "(fără mesaj)")
	assert.NotContains(t, msg.TextContent, "Buget:")
	assert.Contains(t, msg.HTMLContent, "Zorilor")

	mailSvc.Reset()
	require.NoError(t, svc.SendContact(ctx, inquiry.ContactRequest{Name: "Ana", Email: "ana at test", Message: "Salut"}))
	msgs = mailSvc.SentMessages()
	require.Len(t, msgs, 1)
	assert.Nil(t, msgs[0].ReplyTo)
	assert.Contains(t, msgs[0].TextContent, "Email: ana at test")
}

func TestService_RequestViewing(t *testing.T) {
	svc, mailSvc := newService(t, core.NewTestConfig())
	ctx := context.Background()

	err := svc.RequestViewing(ctx, inquiry.ViewingRequest{Name: "Ana"})
	assert.Equal(t, inquiry.ErrIncompleteViewing, errors.Cause(err.(*core.ValidationError).Err))

	require.NoError(t, svc.RequestViewing(ctx, inquiry.ViewingRequest{
		Name:     "Ana",
		Email:    "not-an-email",
		Phone:    "0740000000",
		TimeSlot: "Luni 18-20",
		Details:  "Casă Făget",
	}))
	msgs := mailSvc.SentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Programare vizionare", msgs[0].Subject)
	assert.Nil(t, msgs[0].ReplyTo, "invalid emails are not used as reply-to")
	assert.True(t, strings.Contains(msgs[0].TextContent, "Luni 18-20"))
}

func TestService_mailErrors(t *testing.T) {
	svc, mailSvc := newService(t, core.NewTestConfig())
	ctx := context.Background()
	req := inquiry.ContactRequest{Message: "Bună ziua"}

	mailSvc.FailWith(core.ErrMailNotConfigured)
	err := svc.SendContact(ctx, req)
	uErr, ok := core.AsUnavailable(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "SMTP_NOT_CONFIGURED", uErr.Code)

	mailSvc.FailWith(errors.New("connection refused"))
	err = svc.SendContact(ctx, req)
	require.Error(t, err)
	_, ok = core.AsUnavailable(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "connection refused")

	mailSvc.Reset()
	assert.NoError(t, svc.SendContact(ctx, req))
}
