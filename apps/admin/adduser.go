package main

import (
	"context"
	"fmt"
)

// addUser creates a user, or resets the password of an existing one.
func (cli *commandLine) addUser(email, pwd string) error {
	usr, err := cli.usrSvc.AddUser(context.Background(), email, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("user %s saved\n", usr.Email)
	return nil
}
