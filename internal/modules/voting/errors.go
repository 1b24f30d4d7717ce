package voting

import "errors"

var (
	// ErrElectionNotFound is returned when no election has the requested ID
	ErrElectionNotFound = errors.New("election not found")
	// ErrInvalidElection is returned for elections that cannot be tallied at all
	ErrInvalidElection = errors.New("invalid election")
	// ErrInvalidBallot is returned for ballots that reference unknown candidates or carry bad values
	ErrInvalidBallot = errors.New("invalid ballot")
)
