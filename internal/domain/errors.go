package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrNameTaken           = errors.New("project name already in use")
	ErrProjectClosed       = errors.New("project is fully invested")
	ErrHasInvestment       = errors.New("project already received funds")
	ErrAmountBelowInvested = errors.New("full amount below invested amount")
	ErrInvariant           = errors.New("funding invariant violated")
)
