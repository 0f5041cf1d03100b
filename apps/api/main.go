package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/sigimobiliare/sig/apps/api/echo"
	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/cache"
	"github.com/sigimobiliare/sig/core/inquiry"
	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/core/user"
	emailsvc "github.com/sigimobiliare/sig/services/email"
	logsvc "github.com/sigimobiliare/sig/services/logger"
	"github.com/sigimobiliare/sig/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	mailLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "MAIL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	mailLogger.Enable(!conf.Debug)

	// set up DB
	store, err := database.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = store.Close(context.Background()); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()
	if store.Demo() {
		dbLogger.Warn("no database configured: serving the default listings, writes are disabled")
	}

	// set up services
	mailSvc := emailsvc.NewService(conf, mailLogger)
	listingSvc := listing.NewService(store.Listings, cache.New(conf.Cache.ListingsTTL), dbLogger)
	usrSvc := user.NewServiceFromConfig(store.Users, conf)
	inquirySvc := inquiry.NewService(mailSvc, conf, mailLogger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("dbEngine").Set(store.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.Deps{
			Conf:       conf,
			Logger:     logger,
			ListingSvc: listingSvc,
			UserSvc:    usrSvc,
			InquirySvc: inquirySvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
