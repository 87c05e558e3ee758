// Package cmd implements the folio subcommands: compile, validate, and
// estimate. Each command is a kong-bound struct whose Run method receives
// the process context.
package cmd
