package slog

import (
	"log/slog"
	"time"

	"github.com/arcmirror/arcmirror"
)

// Ensure LoggingDocumentStore implements arcmirror.DocumentStore.
var _ arcmirror.DocumentStore = (*LoggingDocumentStore)(nil)

// LoggingDocumentStore wraps a DocumentStore with debug logging for writes.
type LoggingDocumentStore struct {
	next   arcmirror.DocumentStore
	logger *slog.Logger
}

// NewLoggingDocumentStore creates a new LoggingDocumentStore.
func NewLoggingDocumentStore(next arcmirror.DocumentStore, logger *slog.Logger) *LoggingDocumentStore {
	return &LoggingDocumentStore{next: next, logger: logger}
}

// Has delegates to the wrapped store.
func (s *LoggingDocumentStore) Has(path string) bool {
	return s.next.Has(path)
}

// ReadDocument delegates to the wrapped store.
func (s *LoggingDocumentStore) ReadDocument(path string) ([]byte, error) {
	return s.next.ReadDocument(path)
}

// WriteDocument delegates to the wrapped store and logs the operation.
func (s *LoggingDocumentStore) WriteDocument(path string, data []byte) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("write document",
			"path", path,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.WriteDocument(path, data)
}

// EnsureDir delegates to the wrapped store.
func (s *LoggingDocumentStore) EnsureDir(path string) error {
	return s.next.EnsureDir(path)
}

// Walk delegates to the wrapped store.
func (s *LoggingDocumentStore) Walk(fn func(path string) error) error {
	return s.next.Walk(fn)
}
