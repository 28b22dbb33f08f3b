// Package docstore abstracts the transactional document database the
// inventory engine runs against. Callers never mutate paired fields (item
// availability, model counters) outside a transaction obtained here.
package docstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrConflict is returned when a transaction could not be committed.
	// The caller may retry the whole operation from validation.
	ErrConflict = errors.New("docstore: transaction conflict")
)

// Store is a document database handle. Collection names are opaque path
// strings; sub-collections are encoded as "parent/<id>/child".
type Store interface {
	// Get decodes the document into dest, or returns ErrNotFound.
	Get(ctx context.Context, collection, id string, dest interface{}) error
	// Set creates or replaces a document.
	Set(ctx context.Context, collection, id string, doc interface{}) error
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// List decodes every document in a collection into dest, which must be a
	// pointer to a slice. Order is by document id.
	List(ctx context.Context, collection string, dest interface{}) error
	// RunTransaction executes fn against a transaction handle. All staged
	// writes apply atomically when fn returns nil; any error from fn or from
	// the commit leaves the store untouched.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the handle passed to RunTransaction callbacks. Reads observe the
// transaction's own writes, so re-validating a document after staging
// changes behaves as expected.
type Tx interface {
	Get(collection, id string, dest interface{}) error
	Set(collection, id string, doc interface{}) error
	Delete(collection, id string) error
	// Increment applies a signed delta to a numeric top-level field. It is
	// never a read-modify-write of a value cached by the caller, so
	// concurrent transactions touching the same counter cannot lose updates.
	Increment(collection, id, field string, delta int64) error
}
