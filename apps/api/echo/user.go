package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/user"
)

type authApi struct {
	svc      user.ServiceInterface
	conf     *core.Config
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, svc user.ServiceInterface, conf *core.Config, validate *validator.Validate) {
	api := authApi{
		svc:      svc,
		conf:     conf,
		validate: validate,
	}

	ag := g.Group("/auth")
	ag.POST("/signup", api.signUp)
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.GET("/me", api.me)
}

// Handlers

func (api *authApi) signUp(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.SignUp(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == user.ErrExists {
			return errAccountExists
		}
		return errors.Wrap(err, "signing up")
	}
	if err = setAuthCookies(ctx, api.conf, usr, user.RoleUser); err != nil {
		return errors.Wrap(err, "setting auth cookies")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, role, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrNotFound:
			return errAccountNotFound
		case user.ErrInvalidCredentials:
			return errBadCredentials
		case user.ErrAdminKeyRequired:
			return errAdminKeyRequired
		case user.ErrInvalidAdminKey:
			return errInvalidAdminKey
		}
		return errors.Wrap(err, "logging in")
	}
	if err = setAuthCookies(ctx, api.conf, usr, role); err != nil {
		return errors.Wrap(err, "setting auth cookies")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "role": role})
}

func (api *authApi) logout(ctx echo.Context) error {
	clearAuthCookies(ctx, api.conf)
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (api *authApi) me(ctx echo.Context) error {
	claims, ok := getContextClaims(ctx)
	if !ok {
		return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "authenticated": false})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"ok":            true,
		"authenticated": true,
		"email":         claims.Email,
		"role":          claims.Role,
	})
}
