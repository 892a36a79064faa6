package arcmirror

// DocumentStore persists fetched documents as a local mirror of the remote
// folder hierarchy. Paths are slash-separated and relative to the mirror
// root.
type DocumentStore interface {
	// Has reports whether a document exists at the relative path.
	Has(rel string) bool

	// ReadDocument returns the stored bytes of a document.
	// Returns ENOTFOUND if no document exists at the path.
	ReadDocument(rel string) ([]byte, error)

	// WriteDocument stores a document, creating parent directories as
	// needed. Data must be valid JSON and is written pretty-printed.
	// Returns EINVALID if data is not valid JSON.
	WriteDocument(rel string, data []byte) error

	// EnsureDir creates the directory at the relative path if it does
	// not exist yet.
	EnsureDir(rel string) error

	// Walk calls fn with the relative path of every document below the
	// mirror root in lexical order, stopping at the first error.
	Walk(fn func(rel string) error) error
}
