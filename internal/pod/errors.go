package pod

import "errors"

// Failure strings are preserved exactly for compatibility with existing
// integrations.
var (
	ErrInvalidAmount            = errors.New("Pod:invalid-amount")
	ErrInsufficientShares       = errors.New("Pod:insufficient-shares")
	ErrZeroFloatBalance         = errors.New("Pod:zero-float-balance")
	ErrInsufficientFloatBalance = errors.New("Pod:insufficient-float-balance")
	ErrExcessiveExitFee         = errors.New("Pod:excessive-exit-fee")
	ErrInvalidTokenDrop         = errors.New("Pod:invalid-token-drop")
	ErrInvalidTargetToken       = errors.New("Pod:invalid-target-token")
	ErrInvalidDropContract      = errors.New("Pod:invalid-drop-contract")
	ErrUnauthorizedSetTokenDrop = errors.New("Pod:unauthorized-set-token-drop")
	ErrUnauthorized             = errors.New("Pod:unauthorized")
	ErrInvalidTicket            = errors.New("Pod:initialize-invalid-ticket")

	// ErrDivisionByZero covers withdrawing zero shares; the legacy system
	// surfaced this as an arithmetic failure rather than a validation error.
	ErrDivisionByZero = errors.New("division by zero")
)
