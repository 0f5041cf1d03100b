package main

import (
	"context"
	"log"
	"os"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/cache"
	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/core/user"
	logsvc "github.com/sigimobiliare/sig/services/logger"
	"github.com/sigimobiliare/sig/storage/database"
)

var logger *logsvc.RollbarLogger

func main() {
	conf := core.NewConfig()

	logger = logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(false)

	// set up DB
	ctx := context.Background()
	store, err := database.Open(ctx, conf)
	errAndDie(err)
	if store.Demo() {
		logger.Fatal("no database configured: set SIG_DATABASE_URI or SIG_DATABASE_ENGINE")
	}

	// start CLI
	cli := commandLine{
		usrSvc:     user.NewServiceFromConfig(store.Users, conf),
		listingSvc: listing.NewService(store.Listings, cache.New(conf.Cache.ListingsTTL), logger),
		db:         store.Postgres,
	}
	err = cli.run(os.Args)
	if cErr := store.Close(ctx); cErr != nil {
		logger.Error("closing database", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error("error: " + err.Error())
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
