package rag

import "errors"

var (
	// ErrRateLimited means the hosted model throttled us; callers should
	// back off and retry rather than treat it as a hard failure.
	ErrRateLimited = errors.New("rate limited by upstream model")
	ErrEmbedding   = errors.New("embedding failed")
	ErrGeneration  = errors.New("generation failed")
	ErrIndexWrite  = errors.New("index write failed")
)
