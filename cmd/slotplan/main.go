// SlotPlan computes shelf placements for storage containers.
//
// Build:
//
//	go build -o slotplan ./cmd/slotplan
//
// Typical use:
//
//	slotplan place garage.json --pdf garage.pdf --labels labels.pdf
//	slotplan grid --floor 1
package main

import (
	"os"

	"github.com/piwi3910/SlotPlan/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
