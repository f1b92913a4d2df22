/*
adf tracks and checks the migration of legacy modules into the Alpha Dot
Five package layout.

It keeps a snapshot of each module's migration status and dependencies,
suggests an order that migrates dependencies first, and validates the
package dependency graph against the Alpha Dot Five rules.

Usage:

	adf <command> [arguments]

Common commands:

	adf status                      Show the migration status report
	adf update CoreDTOs completed   Record a status change
	adf order                       Print the suggested migration order
	adf validate                    Check package dependencies against the rules
	adf doctor                      Check workspace health

See 'adf help <command>' for more information on a specific command.
*/
package main

import (
	"os"

	"github.com/deeklead/adf/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
