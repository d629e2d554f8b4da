package classifier

import "errors"

var (
	// ErrBackend indicates the inference call itself failed
	// (connection refused, server error, empty reply).
	ErrBackend = errors.New("backend request failed")

	// ErrTimeout indicates the backend did not answer within the configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrMalformedResponse indicates the reply was not a JSON object.
	ErrMalformedResponse = errors.New("response is not a JSON object")

	// ErrMissingResult indicates the reply had no "result" member.
	ErrMissingResult = errors.New("response has no result field")

	// ErrInvalidResult indicates "result" was not exactly 0, 1 or 2.
	ErrInvalidResult = errors.New("result must be 0, 1 or 2")
)
