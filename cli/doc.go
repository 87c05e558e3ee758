// Package cli wires the folio commands, logging flags, and profiling
// flags into a kong command-line parser.
package cli
