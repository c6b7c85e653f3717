package rag

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	indexFileName       = "index.json"
	fingerprintFileName = "embedding_model.txt"
)

// Index is an on-disk vector index shared by all users. Every document
// carries its owner's user id; retrieval filters on it before ranking.
//
// Mutations to one user's slice of the index are serialized by a per-user
// lock. Queries only take a read lock on the document set, so a query racing
// a rebuild sees either the old snapshot or the new one, never a torn mix.
type Index struct {
	dir   string
	model string

	mu   sync.RWMutex
	docs []Document

	userMu sync.Mutex
	users  map[string]*sync.Mutex

	// fileMu serializes writes to the index files; builds for different
	// users may otherwise persist concurrently.
	fileMu sync.Mutex
}

// OpenIndex loads (or creates) the index directory. A stored embedding-model
// fingerprint that doesn't match the configured model invalidates the whole
// index: serving vectors from a different embedding space silently degrades
// retrieval, so the stale files are discarded instead.
func OpenIndex(dir, embeddingModel string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	idx := &Index{
		dir:   dir,
		model: embeddingModel,
		users: make(map[string]*sync.Mutex),
	}

	indexPath := filepath.Join(dir, indexFileName)
	data, err := os.ReadFile(indexPath)
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	stored, _ := os.ReadFile(filepath.Join(dir, fingerprintFileName))
	if string(stored) != embeddingModel {
		log.Printf("Embedding model mismatch (stored=%q current=%q), discarding old index", stored, embeddingModel)
		os.Remove(indexPath)
		os.Remove(filepath.Join(dir, fingerprintFileName))
		return idx, nil
	}

	if err := json.Unmarshal(data, &idx.docs); err != nil {
		log.Printf("Corrupt index file, starting empty: %v", err)
		idx.docs = nil
	}
	return idx, nil
}

// userLock returns the mutex serializing mutations for one user.
func (idx *Index) userLock(userID string) *sync.Mutex {
	idx.userMu.Lock()
	defer idx.userMu.Unlock()
	mu, ok := idx.users[userID]
	if !ok {
		mu = &sync.Mutex{}
		idx.users[userID] = mu
	}
	return mu
}

// ReplaceUser drops every document owned by the user and installs the given
// set in its place, then persists.
func (idx *Index) ReplaceUser(userID string, docs []Document) error {
	mu := idx.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	idx.mu.Lock()
	kept := make([]Document, 0, len(idx.docs)+len(docs))
	for _, doc := range idx.docs {
		if doc.UserID != userID {
			kept = append(kept, doc)
		}
	}
	kept = append(kept, docs...)
	idx.docs = kept
	idx.mu.Unlock()

	return idx.save()
}

// MergeUser appends the user's documents, deduplicating by transaction id so
// re-adding an already-indexed row is a no-op, then persists.
func (idx *Index) MergeUser(userID string, docs []Document) error {
	mu := idx.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	idx.mu.Lock()
	seen := make(map[string]bool)
	for _, doc := range idx.docs {
		if doc.UserID == userID {
			seen[doc.TransactionID] = true
		}
	}
	for _, doc := range docs {
		if seen[doc.TransactionID] {
			continue
		}
		seen[doc.TransactionID] = true
		idx.docs = append(idx.docs, doc)
	}
	idx.mu.Unlock()

	return idx.save()
}

// HasUser reports whether the index holds any documents for the user.
func (idx *Index) HasUser(userID string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, doc := range idx.docs {
		if doc.UserID == userID {
			return true
		}
	}
	return false
}

// Search returns the top-k documents owned by the user, ranked by cosine
// similarity to the query vector. The owner filter runs before ranking, so
// another user's nearer vectors can never displace the requester's.
func (idx *Index) Search(userID string, query []float32, k int) []Match {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	// k is caller-supplied; never use it for allocation sizing.
	var matches []Match
	for _, doc := range idx.docs {
		if doc.UserID != userID {
			continue
		}
		matches = append(matches, Match{
			TransactionID: doc.TransactionID,
			Date:          doc.Date,
			Type:          doc.Type,
			Category:      doc.Category,
			Amount:        doc.Amount,
			Note:          doc.Note,
			Score:         cosineSimilarity(query, doc.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k >= 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// Stats summarizes the index contents and on-disk footprint.
type Stats struct {
	TotalDocuments int            `json:"total_documents"`
	Users          map[string]int `json:"users"`
	DocumentTypes  map[string]int `json:"document_types"`
	Categories     map[string]int `json:"categories"`
	IndexSizeKB    float64        `json:"index_size_kb"`
	LastModified   string         `json:"last_modified,omitempty"`
}

func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	stats := Stats{
		Users:         make(map[string]int),
		DocumentTypes: make(map[string]int),
		Categories:    make(map[string]int),
	}
	for _, doc := range idx.docs {
		stats.TotalDocuments++
		stats.Users[doc.UserID]++
		if doc.Type != "" {
			stats.DocumentTypes[doc.Type]++
		}
		if doc.Category != "" {
			stats.Categories[doc.Category]++
		}
	}
	idx.mu.RUnlock()

	if info, err := os.Stat(filepath.Join(idx.dir, indexFileName)); err == nil {
		stats.IndexSizeKB = float64(info.Size()) / 1024
		stats.LastModified = info.ModTime().Format(time.RFC3339)
	}
	return stats
}

// save writes the current document set and the embedding-model fingerprint.
// Written to a temp file first so readers never see a half-written index.
func (idx *Index) save() error {
	idx.mu.RLock()
	data, err := json.Marshal(idx.docs)
	idx.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexWrite, err)
	}

	idx.fileMu.Lock()
	defer idx.fileMu.Unlock()

	tmp := filepath.Join(idx.dir, indexFileName+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexWrite, err)
	}
	if err := os.Rename(tmp, filepath.Join(idx.dir, indexFileName)); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexWrite, err)
	}
	if err := os.WriteFile(filepath.Join(idx.dir, fingerprintFileName), []byte(idx.model), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexWrite, err)
	}
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
