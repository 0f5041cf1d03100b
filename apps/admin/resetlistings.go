package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetListings() error {
	n, err := cli.listingSvc.Reset(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%d listings restored\n", n)
	return nil
}
