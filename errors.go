package modelsync

import "errors"

// Sentinel errors for synchronization operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrModelNotFound indicates the named model does not exist on the server.
	ErrModelNotFound = errors.New("modelsync: model not found on server")

	// ErrAuthToken indicates the auth token could not be retrieved.
	// No request is issued when token acquisition fails.
	ErrAuthToken = errors.New("modelsync: could not retrieve auth token")

	// ErrNetworkError indicates a transport-level failure before any
	// HTTP status was received.
	ErrNetworkError = errors.New("modelsync: network error")

	// ErrBadResponse indicates the server response was missing or malformed
	// at the HTTP level (no usable status or an empty body where one is
	// required).
	ErrBadResponse = errors.New("modelsync: could not get a valid HTTP response from server")

	// ErrMissingModelHash indicates a 200 response arrived without the Etag
	// header carrying the model hash. Treated as a protocol violation.
	ErrMissingModelHash = errors.New("modelsync: model hash missing in server response")

	// ErrServerStatus indicates the server answered with a status code
	// outside the defined set {200, 304, 404}. The wrapped message carries
	// the numeric status.
	ErrServerStatus = errors.New("modelsync: server returned error status")

	// ErrClosed indicates the client was closed while a sync was in flight.
	// The completion is discarded and persisted state is left untouched.
	ErrClosed = errors.New("modelsync: client closed")

	// ErrNoLocalModel indicates no downloaded artifact is recorded for the
	// model, so no usable descriptor can be built.
	ErrNoLocalModel = errors.New("modelsync: no local model available")

	// ErrNotSynced indicates no metadata has been persisted for the model.
	ErrNotSynced = errors.New("modelsync: model metadata not synced")

	// ErrStorageError indicates the metadata store failed.
	ErrStorageError = errors.New("modelsync: storage error")

	// ErrInvalidName indicates an empty or malformed model name.
	ErrInvalidName = errors.New("modelsync: invalid model name")
)
