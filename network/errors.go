package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the API server.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrAuthFailed indicates the API server rejected the credentials.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("network: not found")

	// ErrRequestRejected indicates the server refused the request as invalid (HTTP 4xx).
	ErrRequestRejected = errors.New("network: request rejected")

	// ErrBroadcastRejected indicates the server rejected the broadcast transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrInvalidResponse indicates the server returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrMissingConfig indicates no API URL could be resolved.
	ErrMissingConfig = errors.New("network: missing API configuration")
)
