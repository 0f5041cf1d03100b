package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/cache"
	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/core/user"
	"github.com/sigimobiliare/sig/services/logger"
	"github.com/sigimobiliare/sig/storage/database/inmem"
	"github.com/sigimobiliare/sig/storage/database/postgres"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	conf := core.NewTestConfig()

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)

	// start CLI
	return &commandLine{
		usrSvc:     user.NewServiceFromConfig(usrRepo, conf),
		listingSvc: listing.NewService(inmemdb.NewListingRepository(db), cache.New(conf.Cache.ListingsTTL), logsvc.NewTestLogger(conf)),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func (tt cliTest) check(t *testing.T, err error) {
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	t.Run("not postgres", func(t *testing.T) {
		err := cli.run([]string{"admin", "migrate", "up"})
		assert.Equal(t, errMigrationUnsupported, err)
	})

	cli.db = &postgres.DB{DB: sqlx.NewDb(nil, "postgres")}
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		if _, err := fs.Stat(fsys, dir+"/00001_create_listings.sql"); err != nil {
			return err
		}
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_commandLine_users(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "adduser: no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "adduser: no password", args: []string{"adduser", "-email", "admin@test.ro"}, wantErr: errHelp},
		{name: "adduser: invalid email", args: []string{"adduser", "-email", "admin"}, extra: extra{pwd: "first-pass"}, wantErrStr: "Please enter a valid email."},
		{name: "adduser", args: []string{"adduser", "-email", "Admin@Test.ro"}, extra: extra{pwd: "first-pass"}},
		{name: "adduser: existing resets password", args: []string{"adduser", "-email", "admin@test.ro"}, extra: extra{pwd: "second-pass"}},
		{name: "resetpassword: no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "resetpassword: not found", args: []string{"resetpassword", "-email", "lol@test.ro"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "resetpassword", args: []string{"resetpassword", "-email", "admin@test.ro"}, extra: extra{pwd: "third-pass"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			tt.check(t, err)
			if err != nil {
				return
			}
			if extra, ok := tt.extra.(extra); ok {
				usr, err := usrRepo.GetUserByEmail(ctx, "admin@test.ro")
				require.NoError(t, err)
				assert.NoError(t, usr.CheckPassword(extra.pwd))
			}
		})
	}
}

func Test_commandLine_resetListings(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	_, err := cli.listingSvc.Upsert(ctx, listing.NewListing{
		ID:     "garsoniera-test",
		Kind:   listing.KindApartment,
		Title:  "Garsonieră • Gheorgheni",
		Price:  "59.000 €",
		Images: []listing.Image{{Src: "https://example.com/1.jpg"}},
	})
	require.NoError(t, err)

	require.NoError(t, cli.run([]string{"admin", "resetlistings"}))

	got, err := cli.listingSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, len(listing.Defaults(time.Now())))
	_, err = cli.listingSvc.Get(ctx, "garsoniera-test")
	assert.Equal(t, listing.ErrNotFound, err)
}
