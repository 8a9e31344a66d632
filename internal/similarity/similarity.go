package similarity

import (
	"context"
	"fmt"

	"github.com/edusight/reportgen/internal/embedding"
)

// Service computes semantic similarity between text pairs using an
// injected embedder.
type Service struct {
	embedder embedding.Embedder
}

// New creates a similarity service around the given embedder.
func New(e embedding.Embedder) *Service {
	return &Service{embedder: e}
}

// Compute embeds both texts independently and returns their cosine
// similarity in [-1, 1]. Embedder failures propagate; there is no retry
// and no fallback score.
func (s *Service) Compute(ctx context.Context, text1, text2 string) (float64, error) {
	v1, err := s.embedder.Embed(ctx, text1)
	if err != nil {
		return 0, fmt.Errorf("embed text1: %w", err)
	}
	v2, err := s.embedder.Embed(ctx, text2)
	if err != nil {
		return 0, fmt.Errorf("embed text2: %w", err)
	}
	return embedding.Cosine(v1, v2), nil
}
