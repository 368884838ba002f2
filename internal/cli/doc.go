// Package cli implements the command-line interface for landmark-ics.
//
// The root command loads the YAML config, applies flag overrides, runs the
// scraper and writes the calendar atomically, either once or on a cron
// schedule. The inspect subcommand reads a generated file back and config
// init writes a starter config file.
package cli
