package reconciliation

import "errors"

var (
	ErrMissingNow         = errors.New("current time is required")
	ErrInvalidWindow      = errors.New("window end date is before its start date")
	ErrWindowInFuture     = errors.New("window starts after the current time")
	ErrInconsistentReplay = errors.New("replayed balances are inconsistent")
)
