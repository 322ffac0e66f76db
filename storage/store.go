package storage

// KeySize is the length of a content key: the double SHA-256 of the content.
const KeySize = 32

// Store provides content-addressed storage for documents referenced from
// transaction remarks. Keys are DoubleHash(content).
type Store interface {
	// Put stores content under key. The key must equal DoubleHash(content).
	Put(key []byte, content []byte) error

	// Get retrieves content by key.
	Get(key []byte) ([]byte, error)

	// Has checks if content exists for the given key.
	Has(key []byte) (bool, error)

	// Delete removes content by key.
	Delete(key []byte) error

	// Size returns the stored (possibly compressed) size for key.
	Size(key []byte) (int64, error)

	// List returns all stored keys.
	List() ([][]byte, error)
}
