// Package cli implements the starsctl command-line interface.
//
// The package is organized around Cobra commands, each delegating to a
// function that opens a session, talks to the backend and prints the
// result. The general structure separates:
//
//   - Command definitions (cobra.Command instances with package-level flags)
//   - The session (config, API client, query store, logger)
//   - Rendering (human text, or a JSON envelope with --json)
//
// # Command Structure
//
// The root command is "starsctl" with subcommands for each resource:
//
//	starsctl dashboard                 - Live TUI of monitors and events
//	starsctl monitors list|get|stats   - Read monitors
//	starsctl monitors create|update    - Write monitors (flags or form)
//	starsctl monitors pause|resume|delete
//	starsctl monitors export           - Download the SLA report
//	starsctl events list|annotate      - Read and annotate events
//	starsctl groups list               - List monitor groups
//	starsctl config init|show|set      - Manage the config file
//
// # Sessions
//
// Backend commands call newSession, which loads the config (file, then
// STARSCTL_* environment, then global flags), validates it, and builds
// the API client and a query store. Reads go through the store so a
// command that walks pages shares one cache; writes go through the
// actions package so they invalidate what they change.
//
// # Flag Handling
//
// Global flags (--config, --api-url, --verbose, --json, --no-color) are
// defined on the root command and available to all subcommands. The
// PageFlags and MonitorFlags helpers register the flags shared by list
// and monitor write commands.
//
// # Errors
//
// API errors are converted with errors.FromAPI at the command boundary so
// every failure prints what went wrong and how to fix it. With --json the
// same error is written as an envelope with a machine-readable code.
package cli
