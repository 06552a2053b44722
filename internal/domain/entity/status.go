package entity

import "errors"

var (
	ErrUnknownStatus           = errors.New("unknown status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// transitionTable lists, for each status, the statuses it may move to.
// A status that is absent from the table (or maps to nothing) is terminal.
type transitionTable[S ~string] map[S][]S

func (t transitionTable[S]) known(s S) bool {
	if _, ok := t[s]; ok {
		return true
	}
	for _, targets := range t {
		for _, target := range targets {
			if target == s {
				return true
			}
		}
	}
	return false
}

func (t transitionTable[S]) check(from, to S) error {
	if !t.known(to) {
		return ErrUnknownStatus
	}
	for _, next := range t[from] {
		if next == to {
			return nil
		}
	}
	return ErrInvalidStatusTransition
}
