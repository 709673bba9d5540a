package main

import (
	"fmt"
	"os"

	"github.com/petiibhuzah/cryptocurrency/cli"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 10:50
 */

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
