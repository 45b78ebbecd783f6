// Package main is the entry point for the cadence application
package main

import (
	"github.com/auditops/cadence/cmd"
)

func main() {
	cmd.Execute()
}
