package persistence

import "errors"

var (
	// ErrStorageRead wraps backend failures while reading properties.
	ErrStorageRead = errors.New("persistence.read_failed")

	// ErrStorageWrite wraps backend failures while persisting properties.
	ErrStorageWrite = errors.New("persistence.write_failed")

	// ErrEncode indicates a property value could not be serialized.
	ErrEncode = errors.New("persistence.encode_failed")

	// ErrUnsupported is returned by a TabStore that has no backing storage.
	ErrUnsupported = errors.New("persistence.unsupported")

	// ErrEmptyKey is returned when an empty key is written.
	ErrEmptyKey = errors.New("persistence.empty_key")

	ErrFailedToParseRedisURL = errors.New("persistence.redis_url_invalid")
	ErrRedisNotReady         = errors.New("persistence.redis_not_ready")
)
