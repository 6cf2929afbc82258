package tutorial

import "errors"

var (
	ErrMissingCredential = errors.New("missing api credential")
	ErrEmptyResponse     = errors.New("response contained no content")
	ErrMalformedPuzzle   = errors.New("malformed puzzle")
)
