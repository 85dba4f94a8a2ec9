// ABOUTME: Entry point for the study-portal CLI
// ABOUTME: Client for the Study Abroad Service Platform and its API smoke tests

package main

import (
	"fmt"
	"os"

	"github.com/markalston/study-portal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
