// Package main is the entry point for the gitlab-issue-tracker CLI.
package main

import (
	"fmt"
	"os"

	"github.com/matheus-raidiam/gitlab-issue-tracker/cmd"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/logging"
)

// main executes the root command and handles any errors that occur.
func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
