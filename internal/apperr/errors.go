package apperr

import "errors"

// ErrInvalidInput is returned when the provided input fails validation.
// Use errors.Is(err, apperr.ErrInvalidInput) to detect validation failures
// uniformly across the application.
var ErrInvalidInput = errors.New("invalid input")

// ErrRequestFailed is returned by an HTTP-based source when the request fails
// at the transport level (after the retry budget is exhausted) or the server
// responds with a non-transient, non-2xx status code.
// Use errors.Is(err, apperr.ErrRequestFailed) to detect request failures
// uniformly across all sources.
var ErrRequestFailed = errors.New("request failed")

// ErrBadResponse is returned when a 2xx response cannot be parsed as the
// expected structured format. This signals an upstream contract break, not
// transience, so it is never retried.
var ErrBadResponse = errors.New("unparsable response")
