package settings

import "errors"

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrKeyRequired     = errors.New("key is required")
	ErrValueRequired   = errors.New("value is required")
	ErrValueNotNumeric = errors.New("value must be an integer")
)
