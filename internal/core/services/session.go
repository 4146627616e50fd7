package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
	"github.com/karaar-labs/karaar/internal/core/ports/driving"
	"github.com/karaar-labs/karaar/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.DemystifyService = (*SessionService)(nil)

// DocumentExtractor converts a file into plain text.
// Satisfied by extractors.Registry.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (string, map[string]any, error)
}

// ChunkSplitter splits document text into chunks.
// Satisfied by chunker.Splitter.
type ChunkSplitter interface {
	Split(documentID, content string) []domain.Chunk
}

// IndexFactory builds an empty vector index for a session.
type IndexFactory func() driven.VectorIndex

// SessionService orchestrates the full document lifecycle: ingestion,
// analysis, index construction and session registry operations. It is
// the single implementation of the demystify primary port.
type SessionService struct {
	store     driven.SessionStore
	extractor DocumentExtractor
	splitter  ChunkSplitter
	analysis  *AnalysisService
	qa        *QAService
	embedding driven.EmbeddingService
	newIndex  IndexFactory

	mu      sync.RWMutex
	indexes map[string]driven.VectorIndex
}

// NewSessionService creates a session service. The embedding service may be
// nil, in which case sessions are created without a retrieval index and Ask
// reports the capability as unavailable.
func NewSessionService(
	store driven.SessionStore,
	extractor DocumentExtractor,
	splitter ChunkSplitter,
	analysis *AnalysisService,
	qa *QAService,
	embedding driven.EmbeddingService,
	newIndex IndexFactory,
) *SessionService {
	return &SessionService{
		store:     store,
		extractor: extractor,
		splitter:  splitter,
		analysis:  analysis,
		qa:        qa,
		embedding: embedding,
		newIndex:  newIndex,
		indexes:   make(map[string]driven.VectorIndex),
	}
}

// Create ingests the document at filePath, runs the analysis pipeline,
// builds the retrieval index and registers a new session. The file stays
// owned by the caller and is left in place when the session is deleted.
func (s *SessionService) Create(ctx context.Context, filePath string) (*domain.Session, error) {
	return s.create(ctx, filePath, false)
}

// CreateUpload is Create for a file the service owns, such as a copy
// saved by the HTTP upload handler. The file is recorded on the session
// and removed together with it on Delete.
func (s *SessionService) CreateUpload(ctx context.Context, filePath string) (*domain.Session, error) {
	return s.create(ctx, filePath, true)
}

func (s *SessionService) create(ctx context.Context, filePath string, owned bool) (*domain.Session, error) {
	logger.Section("Session Creation")
	logger.Info("Ingesting %s", filePath)

	text, meta, err := s.extractor.Extract(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}
	logger.Debug("Extracted %d characters", len(text))

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       filePath,
		Title:     filepath.Base(filePath),
		Content:   text,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}

	chunks := s.splitter.Split(doc.ID, text)
	logger.Info("Split into %d chunks", len(chunks))

	report, err := s.analysis.Analyze(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}

	chunks, index := s.buildIndex(ctx, chunks)

	session := &domain.Session{
		ID:        uuid.New().String(),
		Document:  doc,
		Report:    report,
		Chunks:    chunks,
		CreatedAt: time.Now(),
	}
	if owned {
		session.FilePath = filePath
	}

	if err := s.store.Save(ctx, session); err != nil {
		if index != nil {
			_ = index.Close()
		}
		return nil, fmt.Errorf("save session: %w", err)
	}

	if index != nil {
		s.mu.Lock()
		s.indexes[session.ID] = index
		s.mu.Unlock()
	}

	logger.Info("Session %s created", session.ID)
	return session, nil
}

// buildIndex embeds the chunks and loads them into a fresh index. On any
// embedding failure the session proceeds without an index; Q&A for it will
// report the embedding capability as unavailable.
func (s *SessionService) buildIndex(
	ctx context.Context, chunks []domain.Chunk,
) ([]domain.Chunk, driven.VectorIndex) {
	if s.embedding == nil || len(chunks) == 0 {
		logger.Debug("Skipping index: embedding unavailable or no chunks")
		return chunks, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("Chunk embedding failed, session will not support Q&A: %v", err)
		return chunks, nil
	}
	if len(embeddings) != len(chunks) {
		logger.Warn("Embedding count mismatch: %d chunks, %d vectors", len(chunks), len(embeddings))
		return chunks, nil
	}

	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	index := s.newIndex()
	for _, chunk := range chunks {
		if err := index.Add(ctx, chunk); err != nil {
			logger.Warn("Index insert failed for chunk %s: %v", chunk.ID, err)
			_ = index.Close()
			return chunks, nil
		}
	}

	return chunks, index
}

// Get returns the session for the given ID.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Ask answers a question grounded in the session's document chunks.
func (s *SessionService) Ask(ctx context.Context, sessionID, question string) (string, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	index, err := s.sessionIndex(ctx, session)
	if err != nil {
		return "", err
	}

	return s.qa.Ask(ctx, index, question)
}

// sessionIndex returns the live index for a session, rebuilding it from the
// persisted chunk embeddings when the process has restarted since creation.
func (s *SessionService) sessionIndex(
	ctx context.Context, session *domain.Session,
) (driven.VectorIndex, error) {
	s.mu.RLock()
	index, ok := s.indexes[session.ID]
	s.mu.RUnlock()
	if ok {
		return index, nil
	}

	var embedded []domain.Chunk
	for _, chunk := range session.Chunks {
		if len(chunk.Embedding) > 0 {
			embedded = append(embedded, chunk)
		}
	}
	if len(embedded) == 0 {
		return nil, fmt.Errorf("session %s: %w", session.ID, domain.ErrIndexUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if index, ok := s.indexes[session.ID]; ok {
		return index, nil
	}

	logger.Debug("Rebuilding index for session %s from %d chunks", session.ID, len(embedded))
	index = s.newIndex()
	for _, chunk := range embedded {
		if err := index.Add(ctx, chunk); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("rebuild index: %w", err)
		}
	}
	s.indexes[session.ID] = index

	return index, nil
}

// Delete removes the session record, its live index and, for sessions
// created from a service-owned upload, the file itself. Caller-owned
// documents are never touched.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	if index, ok := s.indexes[sessionID]; ok {
		_ = index.Close()
		delete(s.indexes, sessionID)
	}
	s.mu.Unlock()

	if session.FilePath != "" {
		if err := os.Remove(session.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Could not remove upload %s: %v", session.FilePath, err)
		}
	}

	logger.Info("Session %s deleted", sessionID)
	return nil
}

// List returns all registered sessions, newest first.
func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.store.List(ctx)
}

// Close releases all live indexes.
func (s *SessionService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, index := range s.indexes {
		_ = index.Close()
		delete(s.indexes, id)
	}
	return nil
}
