package response

import "errors"

// Errors returned by response functions.
var (
	ErrInvalidStep    = errors.New("response: sample interval must be positive")
	ErrInvalidPeriod  = errors.New("response: period must be positive")
	ErrInvalidDamping = errors.New("response: damping ratio must be in [0, 1)")
	ErrShortRecord    = errors.New("response: record needs at least 2 samples")
	ErrInvalidGrid    = errors.New("response: invalid period grid")
	ErrUnknownMethod  = errors.New("response: unknown method")
	ErrUnknownSpacing = errors.New("response: unknown period spacing")
	ErrLengthMismatch = errors.New("response: history and ground motion lengths differ")
)
