package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadBaseURL is returned by New for a relative or malformed server URL.
var ErrBadBaseURL = errors.New("invalid server url")

// StatusError carries a non-2xx reply from the server.
type StatusError struct {
	Code    int
	Message string
	Details []string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unexpected response"
	}
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, msg)
}
