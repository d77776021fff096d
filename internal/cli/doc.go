// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It layers
// flags, DAQCONF_ environment variables and an optional options file into
// the application's internal configuration.
package cli
