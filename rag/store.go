package rag

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
)

const collectionName = "phone_shop_policies"

type Config struct {
	// PersistPath is a directory for on-disk persistence. Empty keeps the
	// index in memory.
	PersistPath string `split_words:"true"`
	Compress    bool   `split_words:"true"`
	// DocsDir holds the .md policy sources.
	DocsDir        string `split_words:"true" default:"data/policies"`
	EmbeddingModel string `split_words:"true"`
}

// SearchResult is one retrieved passage. Fallback results come from the
// keyword scan and carry a fixed nominal score.
type SearchResult struct {
	Text         string
	Source       string
	DocumentType string
	Score        float32
	Fallback     bool
}

// Store wraps a chromem collection plus the raw documents backing the
// keyword fallback.
type Store struct {
	db      *chromem.DB
	embed   chromem.EmbeddingFunc
	chunker *Chunker

	mu   sync.RWMutex
	col  *chromem.Collection
	docs []Document
}

func NewStore(cfg Config, embed chromem.EmbeddingFunc) (*Store, error) {
	var db *chromem.DB
	var err error
	if cfg.PersistPath != "" {
		db, err = chromem.NewPersistentDB(cfg.PersistPath, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("open vector store: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	chunker, err := NewChunker()
	if err != nil {
		return nil, err
	}

	return &Store{
		db:      db,
		embed:   embed,
		chunker: chunker,
		col:     col,
	}, nil
}

// Add chunks one document's text and upserts the chunks. Chunk ids are
// derived from source and content, so adding the same text twice does not
// grow the collection.
func (s *Store) Add(ctx context.Context, text, source, docType string) error {
	return s.IndexDocuments(ctx, []Document{{
		Source:  source,
		Type:    docType,
		Content: text,
	}})
}

// IndexDocuments chunks and upserts a batch of documents.
func (s *Store) IndexDocuments(ctx context.Context, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		// Remember the raw source first so the keyword fallback works even
		// when embedding fails.
		s.rememberLocked(doc)

		chunks := s.chunker.Split(doc)
		if len(chunks) == 0 {
			continue
		}

		records := make([]chromem.Document, 0, len(chunks))
		for _, chunk := range chunks {
			records = append(records, chromem.Document{
				ID:      chunk.ID,
				Content: chunk.Text,
				Metadata: map[string]string{
					"source":        chunk.Source,
					"document_type": chunk.Type,
					"chunk_index":   fmt.Sprint(chunk.Index),
				},
			})
		}

		if err := s.col.AddDocuments(ctx, records, runtime.NumCPU()); err != nil {
			return fmt.Errorf("index %s: %w", doc.Source, err)
		}
		log.Debug().Str("source", doc.Source).Int("chunks", len(chunks)).Msg("document indexed")
	}
	return nil
}

// IndexDir loads and indexes every .md file under dir.
func (s *Store) IndexDir(ctx context.Context, dir string) error {
	docs, err := LoadDir(dir)
	if err != nil {
		return err
	}
	return s.IndexDocuments(ctx, docs)
}

// Reindex drops the collection and rebuilds it from the given documents.
func (s *Store) Reindex(ctx context.Context, docs []Document) error {
	s.mu.Lock()
	if err := s.db.DeleteCollection(collectionName); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("drop collection: %w", err)
	}

	col, err := s.db.GetOrCreateCollection(collectionName, nil, s.embed)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("recreate collection: %w", err)
	}
	s.col = col
	s.docs = nil
	s.mu.Unlock()

	return s.IndexDocuments(ctx, docs)
}

// Search returns the top k passages by cosine similarity, optionally
// filtered by document type. When the index yields nothing it falls back to
// a keyword scan over the raw documents.
func (s *Store) Search(ctx context.Context, query string, k int, docType string) ([]SearchResult, error) {
	if k <= 0 {
		k = 3
	}

	s.mu.RLock()
	col := s.col
	docs := make([]Document, len(s.docs))
	copy(docs, s.docs)
	s.mu.RUnlock()

	var where map[string]string
	if docType != "" {
		where = map[string]string{"document_type": docType}
	}

	results := s.queryIndex(ctx, col, query, k, where)
	if len(results) > 0 {
		return results, nil
	}

	fallback := keywordSearch(docs, query, k)
	if len(fallback) > 0 {
		log.Debug().Str("query", query).Int("results", len(fallback)).Msg("keyword fallback used")
	}
	return fallback, nil
}

func (s *Store) queryIndex(ctx context.Context, col *chromem.Collection, query string, k int, where map[string]string) []SearchResult {
	count := col.Count()
	if count == 0 {
		return nil
	}
	if k > count {
		k = count
	}

	raw, err := col.Query(ctx, query, k, where, nil)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("vector query failed, using keyword fallback")
		return nil
	}

	results := make([]SearchResult, 0, len(raw))
	for _, r := range raw {
		results = append(results, SearchResult{
			Text:         r.Content,
			Source:       r.Metadata["source"],
			DocumentType: r.Metadata["document_type"],
			Score:        r.Similarity,
		})
	}
	return results
}

// Count reports the number of stored chunks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col.Count()
}

func (s *Store) rememberLocked(doc Document) {
	for i, existing := range s.docs {
		if existing.Source == doc.Source {
			s.docs[i] = doc
			return
		}
	}
	s.docs = append(s.docs, doc)
}
