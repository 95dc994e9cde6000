package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBodyTooLarge = errors.New("request body too large")
)

// Response messages.
const (
	MsgUnavailable = "Database connection unavailable. Please check the store setup."
	MsgNotFound    = "Destination not found"
	MsgRemoved     = "Destination removed"
	MsgInvalidBody = "Invalid JSON body"
	MsgTooLarge    = "Request body too large"
	MsgValidation  = "Validation failed"
	MsgInternal    = "Internal server error"
)
