package rag

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"budgetwise-go-be/models"
)

// Fixed user-visible answers for the pipeline's non-generated terminal states.
const (
	NoIndexMessage   = "Your financial data hasn't been indexed yet. Please build the index first."
	NoMatchesMessage = "I couldn't find any relevant transactions to answer your question. Try rephrasing or ask about different transactions."
)

const (
	defaultTopK        = 8
	maxTopK            = 50
	maxMemoryExchanges = 5
	upstreamTimeout    = 30 * time.Second
)

// TransactionSource supplies the rows to index.
type TransactionSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

// Exchange is one remembered question/answer turn.
type Exchange struct {
	Question string
	Answer   string
}

// Service owns the RAG pipeline: index lifecycle, retrieval, scope guard,
// prompt assembly and the hosted generation call.
type Service struct {
	index        *Index
	embedder     Embedder
	generator    Generator
	transactions TransactionSource
	topK         int

	memMu  sync.Mutex
	memory map[string][]Exchange
}

func NewService(index *Index, embedder Embedder, generator Generator, transactions TransactionSource, topK int) *Service {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Service{
		index:        index,
		embedder:     embedder,
		generator:    generator,
		transactions: transactions,
		topK:         topK,
		memory:       make(map[string][]Exchange),
	}
}

// Build indexes every transaction the user owns and returns how many
// documents went in. With reindex the user's existing documents are dropped
// first; otherwise the new set merges in, deduplicated by transaction id.
func (s *Service) Build(ctx context.Context, userID uuid.UUID, reindex bool) (int, error) {
	rows, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	uid := userID.String()
	if len(rows) == 0 {
		if reindex {
			if err := s.index.ReplaceUser(uid, nil); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}

	docs := make([]Document, 0, len(rows))
	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		doc := RenderDocument(row)
		docs = append(docs, doc)
		texts = append(texts, doc.Text)
	}

	embedCtx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()
	vectors, err := s.embedder.Embed(embedCtx, texts)
	if err != nil {
		return 0, wrapEmbedError(err)
	}
	if len(vectors) != len(docs) {
		return 0, fmt.Errorf("%w: got %d vectors for %d documents", ErrEmbedding, len(vectors), len(docs))
	}
	for i := range docs {
		docs[i].Vector = vectors[i]
	}

	if reindex {
		err = s.index.ReplaceUser(uid, docs)
	} else {
		err = s.index.MergeUser(uid, docs)
	}
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// AddTransaction pushes one freshly written row into the index. It is a
// no-op until the user has built an index at least once.
func (s *Service) AddTransaction(ctx context.Context, tx models.Transaction) error {
	uid := tx.UserID.String()
	if !s.index.HasUser(uid) {
		return nil
	}

	doc := RenderDocument(tx)
	embedCtx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()
	vectors, err := s.embedder.Embed(embedCtx, []string{doc.Text})
	if err != nil {
		return wrapEmbedError(err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("%w: got %d vectors for 1 document", ErrEmbedding, len(vectors))
	}
	doc.Vector = vectors[0]

	return s.index.MergeUser(uid, []Document{doc})
}

// QueryResult is the terminal payload of a query: the answer plus the
// retrieved matches for transparency.
type QueryResult struct {
	Answer  string  `json:"answer"`
	Matches []Match `json:"matches"`
}

// Query runs the full pipeline: scope guard, query embedding, owner-filtered
// retrieval, prompt assembly, hosted generation. The guard and the empty
// retrieval checks come before the generation call.
func (s *Service) Query(ctx context.Context, userID uuid.UUID, query string, topK int) (*QueryResult, error) {
	if topK <= 0 {
		topK = s.topK
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	if !InScope(query) {
		return &QueryResult{Answer: ScopeGuardMessage, Matches: []Match{}}, nil
	}

	uid := userID.String()
	if !s.index.HasUser(uid) {
		return &QueryResult{Answer: NoIndexMessage, Matches: []Match{}}, nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()
	vectors, err := s.embedder.Embed(embedCtx, []string{query})
	if err != nil {
		return nil, wrapEmbedError(err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for query", ErrEmbedding, len(vectors))
	}

	matches := s.index.Search(uid, vectors[0], topK)
	if len(matches) == 0 {
		return &QueryResult{Answer: NoMatchesMessage, Matches: []Match{}}, nil
	}

	prompt := buildPrompt(matches, s.history(uid), query)

	genCtx, cancelGen := context.WithTimeout(ctx, upstreamTimeout)
	defer cancelGen()
	answer, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	s.remember(uid, query, answer)
	return &QueryResult{Answer: answer, Matches: matches}, nil
}

// Stats reports index contents and on-disk footprint.
func (s *Service) Stats() Stats {
	return s.index.Stats()
}

// ClearMemory drops the user's remembered conversation turns. Only this
// explicit call resets memory; it never expires on its own.
func (s *Service) ClearMemory(userID uuid.UUID) {
	s.memMu.Lock()
	defer s.memMu.Unlock()
	delete(s.memory, userID.String())
}

func (s *Service) history(userID string) []Exchange {
	s.memMu.Lock()
	defer s.memMu.Unlock()
	return append([]Exchange(nil), s.memory[userID]...)
}

func (s *Service) remember(userID, question, answer string) {
	s.memMu.Lock()
	defer s.memMu.Unlock()
	turns := append(s.memory[userID], Exchange{Question: question, Answer: answer})
	if len(turns) > maxMemoryExchanges {
		turns = turns[len(turns)-maxMemoryExchanges:]
	}
	s.memory[userID] = turns
}

func wrapEmbedError(err error) error {
	if errors.Is(err, ErrRateLimited) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrEmbedding, err)
}
