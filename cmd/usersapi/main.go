// Command usersapi serves the users API and exports its contracts.
//
// Run the server:
//
//	usersapi serve --config usersapi.yaml
//
// Export the OpenAPI document:
//
//	usersapi spec              JSON to stdout
//	usersapi spec --yaml -o openapi.yaml
//
// List the bound routes:
//
//	usersapi routes
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
