package report

import "errors"

var (
	ErrInvalidMonth     = errors.New("invalid month, expected YYYY-MM")
	ErrBranchIDRequired = errors.New("branch_id is required")
	ErrExportFailed     = errors.New("failed to render report export")
)
