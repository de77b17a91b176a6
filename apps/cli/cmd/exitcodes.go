package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/hitdiff/packages/override"
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
)

// Exit codes for hitdiff CLI
const (
	// ExitSuccess indicates every profile ran and, with --fail-on-diff, no differences were found
	ExitSuccess = 0

	// ExitDiffFound indicates responses differed and --fail-on-diff was set
	ExitDiffFound = 1

	// ExitParseError indicates a response body could not be parsed
	ExitParseError = 2

	// ExitConfigError indicates an invalid profile, config file or request
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError pins the exit code of an error. Reported errors were already
// printed by a formatter.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: ExitUsageError, err: err}
}

func configError(err error) error {
	return &exitError{code: ExitConfigError, err: err}
}

func reported(err error) error {
	return &exitError{code: exitCodeFor(err), err: err, reported: true}
}

func isReported(err error) bool {
	var ee *exitError
	return errors.As(err, &ee) && ee.reported
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) && ee.code != 0 {
		return ee.code
	}
	if errors.Is(err, override.ErrInvalidToken) {
		return ExitUsageError
	}

	switch {
	case errors.Is(err, profile.ErrTransport):
		return ExitNetworkError
	case errors.Is(err, profile.ErrResponseParse):
		return ExitParseError
	case errors.Is(err, profile.ErrConfig),
		errors.Is(err, profile.ErrValidation),
		errors.Is(err, profile.ErrProfileNotFound),
		errors.Is(err, profile.ErrRequestBuild),
		errors.Is(err, profile.ErrSerialization):
		return ExitConfigError
	}
	return ExitUsageError
}
