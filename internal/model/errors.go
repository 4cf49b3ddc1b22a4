package model

import "errors"

// Sentinel errors shared across the service and handler layers
var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrUnknownProjectCode = errors.New("unknown project code")
	ErrMalformedRecord    = errors.New("malformed record")
)
