package recommendation

import (
	"context"
	"fmt"
)

// SimilarItems returns available books sharing the category of bookID,
// excluding bookID itself. An unknown book yields an empty list.
func (e *Engine) SimilarItems(ctx context.Context, bookID uint64, topN int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	topN = e.clampTopN(topN, e.cfg.DefaultSimilarTopN)

	book, ok, err := e.catalog.FindByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	if !ok {
		return []uint64{}, nil
	}

	ids, err := e.catalog.FindSimilar(ctx, book.CategoryID, book.ID, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to load similar books: %w", err)
	}
	if ids == nil {
		ids = []uint64{}
	}
	return ids, nil
}
