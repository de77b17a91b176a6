// Package config loads process settings for hitdiff.
//
// Settings come from, in increasing precedence: built-in defaults, a
// .hitdiff.yaml file, HITDIFF_* environment variables, and command-line
// flags applied by the caller. A .env file is loaded into the process
// environment first when present.
package config
