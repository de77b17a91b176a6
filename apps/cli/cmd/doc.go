// Package cmd implements the hitdiff CLI commands using Cobra.
//
// Available commands:
//   - run: Diff the responses of one or more profiles
//   - req: Send a single named request and print the response
//   - url: Print the final URL of a request
//   - parse: Build a diff profile from two URLs
//   - validate: Check a profiles file without sending requests
//   - list: Display the profiles in a file
//   - init: Create example settings and profile files
//   - version: Show hitdiff version information
//
// Errors are mapped to exit codes in exitcodes.go.
package cmd
