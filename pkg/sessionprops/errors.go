package sessionprops

import "errors"

var (
	ErrReadFailed  = errors.New("sessionprops.read_failed")
	ErrWriteFailed = errors.New("sessionprops.write_failed")
)
