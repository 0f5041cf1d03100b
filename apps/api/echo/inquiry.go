package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/inquiry"
)

const (
	msgContactMailDown = "Formularul de contact nu este configurat pe server (SMTP lipsește)."
	msgViewingMailDown = "Momentan formularul nu poate trimite emailuri automat. Te rugăm să ne scrii direct:"
)

type inquiryApi struct {
	svc inquiry.ServiceInterface
}

func registerInquiryAPI(g *echo.Group, svc inquiry.ServiceInterface) {
	api := inquiryApi{svc: svc}

	g.POST("/contact", api.contact)
	g.POST("/vizionare", api.viewing)
}

// Handlers

func (api *inquiryApi) contact(ctx echo.Context) error {
	var data inquiry.ContactRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ContactRequest")
	}
	if err := api.svc.SendContact(ctx.Request().Context(), data); err != nil {
		return api.mailError(ctx, err, msgContactMailDown)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (api *inquiryApi) viewing(ctx echo.Context) error {
	var data inquiry.ViewingRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ViewingRequest")
	}
	if err := api.svc.RequestViewing(ctx.Request().Context(), data); err != nil {
		return api.mailError(ctx, err, msgViewingMailDown)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

// mailError points visitors to the office address when no mail transport is configured.
func (api *inquiryApi) mailError(ctx echo.Context, err error, msg string) error {
	if uErr, ok := core.AsUnavailable(err); ok && uErr == core.ErrMailNotConfigured {
		return ctx.JSON(http.StatusServiceUnavailable, errorResponse{
			Error:        msg,
			Code:         uErr.Code,
			ContactEmail: api.svc.Recipient(),
		})
	}
	return err
}
