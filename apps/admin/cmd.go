package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/core/user"
	"github.com/sigimobiliare/sig/storage/database/postgres"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp                 = errors.New("help provided")
	errMigrationUnsupported = errors.New("migrations are only available with the postgres engine")
)

type commandLine struct {
	usrSvc     user.ServiceInterface
	listingSvc listing.ServiceInterface
	db         *postgres.DB // nil unless the postgres engine is used
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -email EMAIL - create a user, or reset its password if it exists")
	fmt.Println("  resetpassword -email EMAIL - reset user's password")
	fmt.Println("  resetlistings - replace every listing with the default listings")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (postgres only): up, up-by-one, up-to VERSION, down, down-to VERSION, redo, reset, status, version")
}

func (cli *commandLine) promptPassword(cmd *flag.FlagSet) (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addUserCmd)
		if err != nil {
			return err
		}
		return cli.addUser(*addUserEmail, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "resetlistings":
		return cli.resetListings()

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}
