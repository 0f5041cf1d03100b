package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/user"
)

const (
	msgUnavailable = "Service temporarily unavailable. Please try again later."
	msgServerError = "Unexpected server error."
)

var (
	errUnauthorized     = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized.")
	errHttpNotFound     = echo.NewHTTPError(http.StatusNotFound, "Not found.")
	errAccountExists    = echo.NewHTTPError(http.StatusConflict, "Account already exists. Please log in.")
	errAccountNotFound  = echo.NewHTTPError(http.StatusNotFound, "No account found. Please sign up first.")
	errBadCredentials   = echo.NewHTTPError(http.StatusUnauthorized, "Incorrect email or password.")
	errAdminKeyRequired = echo.NewHTTPError(http.StatusBadRequest, "Please enter the admin key.")
	errInvalidAdminKey  = echo.NewHTTPError(http.StatusForbidden, "Invalid admin key.")
)

// errorResponse is the body of every failed API call.
type errorResponse struct {
	OK           bool              `json:"ok"`
	Error        string            `json:"error"`
	Code         string            `json:"code,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	ContactEmail string            `json:"contactEmail,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError
		resp := errorResponse{}

		switch origErr := errors.Cause(core.TranslateValidationErrors(err, translator)).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			resp.Error = fmt.Sprint(origErr.Message)
		case *core.ValidationError:
			code = http.StatusBadRequest
			resp.Error = origErr.Error()
			if len(origErr.Fields) > 0 {
				resp.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					if _, ok := resp.Fields[fErr.Field]; !ok {
						resp.Fields[fErr.Field] = fErr.Error
					}
				}
			}
		case *core.UnavailableError:
			code = http.StatusServiceUnavailable
			resp.Code = origErr.Code
			resp.Error = msgUnavailable
		default: // any other error is a server error
			resp.Error = msgServerError
			if ctx.Echo().Debug {
				resp.Error = err.Error()
			}

			var usr user.User
			if claims, ok := getContextClaims(ctx); ok {
				usr.Email = claims.Email
			}
			logger.Error(msgServerError, errors.Wrap(err, ctx.Request().URL.Path), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
