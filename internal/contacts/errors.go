package contacts

import "errors"

// Domain errors for contact analysis.
var (
	// ErrEmptyTrajectory indicates there are no frames to analyze.
	ErrEmptyTrajectory = errors.New("contacts: empty trajectory (nothing to analyze)")

	// ErrInvalidCutoff indicates a non-positive distance cutoff.
	ErrInvalidCutoff = errors.New("contacts: cutoff must be positive")

	// ErrOverlappingGroups indicates the two index groups share a particle.
	ErrOverlappingGroups = errors.New("contacts: groups A and B must be disjoint")

	// ErrIndexOutOfRange indicates a group references a particle the
	// trajectory does not have.
	ErrIndexOutOfRange = errors.New("contacts: group index outside trajectory")
)
