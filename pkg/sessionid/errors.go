package sessionid

import "errors"

var (
	// ErrRecordRead indicates the shared session record could not be read.
	ErrRecordRead = errors.New("sessionid.record_read_failed")

	// ErrRecordWrite indicates the shared session record could not be persisted.
	ErrRecordWrite = errors.New("sessionid.record_write_failed")

	// ErrWindowStore indicates a tab store operation failed.
	ErrWindowStore = errors.New("sessionid.window_store_failed")

	// ErrBootstrapNotUUIDv7 indicates a bootstrap id carries no start time.
	ErrBootstrapNotUUIDv7 = errors.New("sessionid.bootstrap_not_uuidv7")
)
