package main

import (
	"github.com/trezcool/goose"

	"github.com/sigimobiliare/sig/storage/database/postgres"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errMigrationUnsupported
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db.DB.DB, postgres.MigrationsFS, postgres.MigrationsDir, arguments...)
}
