package goalg

import "errors"

// Every failure mode a prediction request can surface.
// All are terminal for the single request, the caller decides whether to retry.
var (
	// ErrUnknownLeague indicates the league identifier matched nothing in the registry
	ErrUnknownLeague = errors.New("unknown league")

	// ErrTeamNotFound indicates the team is absent from the resolved league's data
	ErrTeamNotFound = errors.New("team not found")

	// ErrInsufficientData indicates a team has no played matches so per-match rates cannot be derived
	ErrInsufficientData = errors.New("insufficient data")

	// ErrSourceUnavailable indicates the upstream stats source could not be fetched or parsed
	ErrSourceUnavailable = errors.New("source unavailable")
)
