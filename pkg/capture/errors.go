package capture

import "errors"

var (
	ErrEmptyEventName  = errors.New("capture.empty_event_name")
	ErrSendFailed      = errors.New("capture.send_failed")
	ErrTransportClosed = errors.New("capture.transport_closed")
)
