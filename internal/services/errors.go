package services

import "errors"

// Error taxonomy shared by all services. Controllers map these to HTTP
// status codes; everything else surfaces as an internal error.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
