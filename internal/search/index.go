package search

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/catalog-server/internal/domain"
)

// SearchIndex wraps a Bleve index of book documents.
//
// All methods are safe for concurrent use. The mutex is held exclusively
// only while the index is rebuilt or closed.
type SearchIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Uses a stderr text logger if nil
}

// mappingVersion is bumped whenever buildIndexMapping changes.
// A mismatch on startup drops and recreates the index.
const mappingVersion = "1"

const batchSize = 500

// NewSearchIndex opens the index under DataPath, creating it if missing.
// An index that cannot be opened or has an outdated mapping is recreated empty.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create search dir: %w", err)
	}

	indexPath := filepath.Join(opts.DataPath, "books.bleve")
	versionPath := filepath.Join(opts.DataPath, "books.version")

	var index bleve.Index
	needsRebuild := false

	_, statErr := os.Stat(indexPath)
	indexExists := statErr == nil

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil:
			logger.Info("search index has no version file, will rebuild", "new_version", mappingVersion)
			needsRebuild = true
		case string(existingVersion) != mappingVersion:
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if indexExists && !needsRebuild {
		var err error
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate", "path", indexPath, "error", err)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
		index = nil
	}

	if index == nil {
		var err error
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			logger.Warn("failed to write search version file", "error", err)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &SearchIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Shutdown implements do.Shutdowner.
func (s *SearchIndex) Shutdown() error {
	return s.Close()
}

// IndexBook adds or replaces a book's document.
func (s *SearchIndex) IndexBook(_ context.Context, book *domain.Book) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(book.ID, NewBookDocument(book).ToMap())
}

// DeleteBook removes a book's document. Deleting an unknown id is not an error.
func (s *SearchIndex) DeleteBook(_ context.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// IndexBooks indexes books in batches of batchSize.
func (s *SearchIndex) IndexBooks(ctx context.Context, books iter.Seq2[*domain.Book, error]) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexAll(ctx, books)
}

// indexAll writes every book to the current index. Callers hold mu.
func (s *SearchIndex) indexAll(ctx context.Context, books iter.Seq2[*domain.Book, error]) (int, error) {
	indexed := 0
	batch := s.index.NewBatch()

	for book, err := range books {
		if err != nil {
			return indexed, fmt.Errorf("read books: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return indexed, err
		}

		if err := batch.Index(book.ID, NewBookDocument(book).ToMap()); err != nil {
			return indexed, fmt.Errorf("batch index %s: %w", book.ID, err)
		}

		if batch.Size() >= batchSize {
			if err := s.index.Batch(batch); err != nil {
				return indexed, fmt.Errorf("commit batch: %w", err)
			}
			indexed += batch.Size()
			batch.Reset()
		}
	}

	if batch.Size() > 0 {
		if err := s.index.Batch(batch); err != nil {
			return indexed, fmt.Errorf("commit batch: %w", err)
		}
		indexed += batch.Size()
	}

	return indexed, nil
}

// DocumentCount returns the number of indexed books.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the index and refills it from books.
//
// Holds the exclusive lock for the whole rebuild, so searches block until
// it finishes.
func (s *SearchIndex) Rebuild(ctx context.Context, books iter.Seq2[*domain.Book, error]) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return 0, fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(s.path); err != nil {
		return 0, fmt.Errorf("remove index: %w", err)
	}

	index, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		return 0, fmt.Errorf("create index: %w", err)
	}
	s.index = index

	n, err := s.indexAll(ctx, books)
	if err != nil {
		return n, err
	}

	s.logger.Info("rebuilt search index", "path", s.path, "books", n)
	return n, nil
}
