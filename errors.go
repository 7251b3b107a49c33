package main

import (
	"errors"
	"fmt"

	"chat2md/internal/fetcher"
	"chat2md/internal/scraper"
)

const (
	exitInvalidInput = 2
	exitNotFound     = 3
	exitInternal     = 1
)

// errInvalidInput marks errors caused by bad flags or arguments.
var errInvalidInput = errors.New("invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidInput, fmt.Sprintf(format, args...))
}

func isInvalidInput(err error) bool {
	return errors.Is(err, errInvalidInput) ||
		errors.Is(err, scraper.ErrUnknownSite) ||
		errors.Is(err, fetcher.ErrInvalidWait)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case isInvalidInput(err):
		return exitInvalidInput
	case errors.Is(err, scraper.ErrNoTurns):
		return exitNotFound
	default:
		return exitInternal
	}
}

func formatError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case isInvalidInput(err):
		return fmt.Sprintf("Error [invalid-input]: %v", err)
	case errors.Is(err, scraper.ErrNoTurns):
		return fmt.Sprintf("Error [not-found]: %v", err)
	default:
		return fmt.Sprintf("Error [internal]: %v", err)
	}
}
