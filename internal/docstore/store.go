// Package docstore exposes the document-store contract the rest of the
// application depends on: keyed JSON documents grouped into named
// collections, with get/set/update/delete-by-id and collection listing.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound reports that a document id does not exist in its collection.
// It is deliberately distinct from transport failures so callers can show
// "not found" instead of a generic error.
var ErrNotFound = errors.New("document not found")

// Document is a stored record together with its collection-unique id.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the document-store client contract.
type Store interface {
	// List returns every document in the collection with its id.
	List(ctx context.Context, collection string) ([]Document, error)
	// Get returns a single document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set writes the full document, creating it if absent (replace semantics).
	Set(ctx context.Context, collection, id string, data map[string]any) error
	// Update merges partial into an existing document. ErrNotFound if absent.
	Update(ctx context.Context, collection, id string, partial map[string]any) error
	// Delete removes the document by id. Deleting a missing id is not an error.
	Delete(ctx context.Context, collection, id string) error
}
