package tests

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigimobiliare/sig/core"
)

func Test_inquiryApi_contact(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name        string
		body        map[string]string
		wantCode    int
		wantSubject string
		wantReplyTo string
	}{
		{name: "empty", body: map[string]string{"name": "Ana"}, wantCode: http.StatusBadRequest},
		{name: "lead without contact", body: map[string]string{"propertyType": "Apartament"}, wantCode: http.StatusBadRequest},
		{
			name: "message", body: map[string]string{"name": "Ana", "email": "ana@test.ro", "message": "Bună ziua!"},
			wantCode: http.StatusOK, wantSubject: "Mesaj nou (website)", wantReplyTo: "ana@test.ro",
		},
		{
			name: "malformed email", body: map[string]string{"name": "Ana", "email": "ana at test", "message": "Salut"},
			wantCode: http.StatusOK, wantSubject: "Mesaj nou (website)",
		},
		{
			name: "quick request", body: map[string]string{"phone": "0740000000", "neighborhood": "Zorilor", "budget": "100.000 – 150.000 €", "source": "quick-search"},
			wantCode: http.StatusOK, wantSubject: "Mesaj nou (quick-search)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.mailSvc.Reset()
			rec := app.do(newRequest(http.MethodPost, "/api/contact", marshallObj(t, tt.body)))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			sent := app.mailSvc.SentMessages()
			if tt.wantCode != http.StatusOK {
				var resp httpErr
				decode(t, rec, &resp)
				assert.Equal(t, "Missing message/details.", resp.Error)
				assert.Empty(t, sent)
				return
			}
			require.Len(t, sent, 1)
			assert.Equal(t, tt.wantSubject, sent[0].Subject)
			assert.Equal(t, "office@sig-imobiliare.test", sent[0].To[0].Address)
			if tt.wantReplyTo == "" {
				assert.Nil(t, sent[0].ReplyTo)
			} else {
				require.NotNil(t, sent[0].ReplyTo)
				assert.Equal(t, tt.wantReplyTo, sent[0].ReplyTo.Address)
			}
		})
	}
}

func Test_inquiryApi_viewing(t *testing.T) {
	app := setup(t)

	t.Run("incomplete", func(t *testing.T) {
		app.mailSvc.Reset()
		rec := app.do(newRequest(http.MethodPost, "/api/vizionare", marshallObj(t, map[string]string{"name": "Ana"})))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		decode(t, rec, &resp)
		assert.Contains(t, resp.Error, "Completează numele")
		assert.Contains(t, resp.Fields, "timeSlot")
		assert.Empty(t, app.mailSvc.SentMessages())
	})

	t.Run("invalid email is not used as reply-to", func(t *testing.T) {
		app.mailSvc.Reset()
		rec := app.do(newRequest(http.MethodPost, "/api/vizionare", marshallObj(t, map[string]string{
			"name": "Ana", "email": "ana-at-test", "phone": "0740000000", "timeSlot": "Luni 10-12", "details": "casa-faget",
		})))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		sent := app.mailSvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "Programare vizionare", sent[0].Subject)
		assert.Nil(t, sent[0].ReplyTo)
		assert.Contains(t, sent[0].TextContent, "Luni 10-12")
	})
}

func Test_inquiryApi_mailErrors(t *testing.T) {
	app := setup(t)
	viewing := marshallObj(t, map[string]string{"name": "Ana", "phone": "0740000000", "timeSlot": "Luni", "details": "Vizionare"})
	contact := marshallObj(t, map[string]string{"message": "Bună ziua!"})

	t.Run("not configured", func(t *testing.T) {
		app.mailSvc.FailWith(core.ErrMailNotConfigured)
		defer app.mailSvc.Reset()

		for path, body := range map[string][]byte{"/api/contact": contact, "/api/vizionare": viewing} {
			rec := app.do(newRequest(http.MethodPost, path, body))
			require.Equal(t, http.StatusServiceUnavailable, rec.Code, path)

			var resp struct {
				OK           bool   `json:"ok"`
				Code         string `json:"code"`
				Error        string `json:"error"`
				ContactEmail string `json:"contactEmail"`
			}
			decode(t, rec, &resp)
			assert.False(t, resp.OK)
			assert.Equal(t, "SMTP_NOT_CONFIGURED", resp.Code)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, "office@sig-imobiliare.test", resp.ContactEmail)
		}
	})

	t.Run("send failure", func(t *testing.T) {
		app.mailSvc.FailWith(errors.New("connection refused"))
		defer app.mailSvc.Reset()

		rec := app.do(newRequest(http.MethodPost, "/api/contact", contact))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp httpErr
		decode(t, rec, &resp)
		assert.False(t, resp.OK)
		assert.Contains(t, resp.Error, "connection refused") // debug mode shows the cause
	})
}
