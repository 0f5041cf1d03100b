package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/inquiry"
	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/core/user"
)

type (
	Deps struct {
		Conf           *core.Config
		Logger         core.Logger
		ListingSvc     listing.ServiceInterface
		UserSvc        user.ServiceInterface
		InquirySvc     inquiry.ServiceInterface
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		deps     *Deps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps *Deps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.Use(sessionMiddleware(conf))
	s.app.Use(pageGuardMiddleware())
	if conf.Server.StaticDir != "" {
		s.app.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  conf.Server.StaticDir,
			HTML5: true,
			Skipper: func(ctx echo.Context) bool {
				return strings.HasPrefix(ctx.Request().URL.Path, "/api")
			},
		}))
	} else {
		s.app.GET("/", home)
	}
	s.app.GET("/logout", logout(conf))

	api := s.app.Group("/api")
	admin := adminMiddleware()

	registerAuthAPI(api, s.deps.UserSvc, conf, s.deps.Validate)
	registerListingAPI(api, admin, s.deps.ListingSvc, s.deps.Validate)
	registerInquiryAPI(api, s.deps.InquirySvc)
	api.GET("/db", dbPing(s.deps.ListingSvc))
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Sig Imobiliare Cluj API")
}

func dbPing(svc listing.ServiceInterface) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := svc.Ping(ctx.Request().Context()); err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "ping": 1})
	}
}
