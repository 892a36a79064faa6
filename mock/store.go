package mock

import "github.com/arcmirror/arcmirror"

var _ arcmirror.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of arcmirror.DocumentStore.
type DocumentStore struct {
	HasFn           func(rel string) bool
	ReadDocumentFn  func(rel string) ([]byte, error)
	WriteDocumentFn func(rel string, data []byte) error
	EnsureDirFn     func(rel string) error
	WalkFn          func(fn func(rel string) error) error
}

func (s *DocumentStore) Has(rel string) bool {
	return s.HasFn(rel)
}

func (s *DocumentStore) ReadDocument(rel string) ([]byte, error) {
	return s.ReadDocumentFn(rel)
}

func (s *DocumentStore) WriteDocument(rel string, data []byte) error {
	return s.WriteDocumentFn(rel, data)
}

func (s *DocumentStore) EnsureDir(rel string) error {
	return s.EnsureDirFn(rel)
}

func (s *DocumentStore) Walk(fn func(rel string) error) error {
	return s.WalkFn(fn)
}
