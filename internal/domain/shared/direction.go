package shared

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDirection = errors.New("invalid transaction direction")
	ErrInvalidCategory  = errors.New("invalid transaction category")
)

// Direction defines whether a transaction moves money into or out of a wallet
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Valid reports whether d is one of the known directions
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// Sign returns +1 for credits, -1 for debits and 0 for anything else
func (d Direction) Sign() int64 {
	switch d {
	case DirectionCredit:
		return 1
	case DirectionDebit:
		return -1
	default:
		return 0
	}
}

// ParseDirection accepts the canonical names case-insensitively
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", ErrInvalidDirection
	}
	return d, nil
}
