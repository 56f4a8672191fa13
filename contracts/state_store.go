package contracts

import "errors"

// StateStore is the contract/state boundary: bytes in, bytes out. The node
// has no knowledge of how or where a store keeps the state it is handed.
type StateStore interface {
	Put(id string, state []byte) error
	Get(id string) ([]byte, error)
}

// RetryErr marks a store failure as transient; decorators may retry it.
var RetryErr = errors.New("retry")

// ErrStateNotFound reports that no state exists for the requested contract.
var ErrStateNotFound = errors.New("contract state not found")
