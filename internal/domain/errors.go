package domain

import "errors"

var (
	ErrHandlerMisconfigured = errors.New("handler misconfigured")
	ErrUnknownHandlerType   = errors.New("no such handler type")
	ErrHandlerNotFound      = errors.New("handler not found")
	ErrMalformedRecord      = errors.New("malformed record")
	ErrDaemonNotRunning     = errors.New("alert-bot daemon is not running")
	ErrDaemonAlreadyRunning = errors.New("alert-bot daemon is already running")
	ErrChannelNotFound      = errors.New("channel does not exist")
	ErrNotAChannel          = errors.New("path exists and is not a fifo")
	ErrNoReader             = errors.New("no reader attached to channel")
	ErrInputConflict        = errors.New("can only receive input from one source: either --body or pipe")
	ErrNoInput              = errors.New("must receive at least one input: either --body or pipe")
	ErrSecretNotFound       = errors.New("secret not found")
	ErrUnsupportedSecretRef = errors.New("unsupported secret reference")
	ErrInvalidConfig        = errors.New("invalid configuration")
)
