package types

import "errors"

// Error kinds surfaced by the staking entry points. Callers match with
// errors.Is; the wrapped messages carry the offending values.
var (
	// ErrStakingUnavailable is returned when the staking capability was not
	// resolved at process start.
	ErrStakingUnavailable = errors.New("staking is not available")

	// ErrNotLoggedIn is returned when the wallet has no active session.
	ErrNotLoggedIn = errors.New("must be logged in to stake")

	// ErrInvalidModel is returned when a model artifact fails to load
	// against the game's environment.
	ErrInvalidModel = errors.New("invalid model file")

	// ErrScoreOutOfRange is returned when a target score lies outside the
	// game's score range.
	ErrScoreOutOfRange = errors.New("target score out of range")
)
