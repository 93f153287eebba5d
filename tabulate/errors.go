// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedStrategy = errors.New("tabulation strategy not implemented")
	ErrInvalidBallot       = errors.New("invalid ballot")
)

// UnsupportedStrategyError is returned by New for any strategy other than
// InstantRunoff.
type UnsupportedStrategyError struct {
	Strategy Strategy
}

func (e *UnsupportedStrategyError) Error() string {
	return fmt.Sprintf("%s not implemented", e.Strategy)
}

func (e *UnsupportedStrategyError) Unwrap() error {
	return ErrUnsupportedStrategy
}

// BallotValidationError reports a ballot that does not have the
// Ballot/Ranking shape. No rounds are run over a ballot set containing one.
type BallotValidationError struct {
	BallotID int64
	Reason   string
}

func (e *BallotValidationError) Error() string {
	return fmt.Sprintf("invalid ballot %d: %s", e.BallotID, e.Reason)
}

func (e *BallotValidationError) Unwrap() error {
	return ErrInvalidBallot
}
