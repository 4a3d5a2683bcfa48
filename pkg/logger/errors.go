package logger

import "errors"

// ErrInvalidConfig is returned by FromConfig for unknown formats or levels.
var ErrInvalidConfig = errors.New("logger.invalid_config")
