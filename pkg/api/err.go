package api

import "errors"

var (
	// ErrStatus is returned when the remote host answers outside the 2xx
	// range.
	ErrStatus = errors.New("unexpected status code")

	// ErrUnsuccessful is returned when the response envelope carries
	// success: false. The payload of such a response is never inspected.
	ErrUnsuccessful = errors.New("unsuccessful request")
)
