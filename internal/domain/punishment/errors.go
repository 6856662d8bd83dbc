package punishment

import "errors"

var (
	ErrZeroPoints    = errors.New("points must not be zero")
	ErrReasonMissing = errors.New("reason is required")
)
