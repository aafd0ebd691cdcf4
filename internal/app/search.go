package app

import (
	"context"
	"sort"
	"strings"

	"github.com/Muxite/filex/internal/ferrors"
	"github.com/Muxite/filex/internal/vectorindex"
)

// Search embeds query once per available kind and merges the two vector
// indices' results by similarity. includeImages controls whether the image
// index is queried at all (via the image embedder's cross-modal text path);
// when false only the text index contributes.
func (a *Repo) Search(ctx context.Context, query string, topK int, includeImages bool) ([]vectorindex.Result, error) {
	if topK <= 0 {
		return nil, ferrors.InvalidArgument("top_k must be positive", nil)
	}
	if strings.TrimSpace(query) == "" {
		return nil, ferrors.InvalidArgument("query must not be empty", nil)
	}

	var results []vectorindex.Result

	if a.Manager.TextIndex.Size() > 0 {
		vec, err := a.TextEmbedder.Embed(ctx, query)
		if err != nil {
			return nil, err
		}
		hits, err := a.Manager.TextIndex.Search(vec, topK)
		if err != nil && ferrors.GetCode(err) != ferrors.ErrCodeDimensionMismatch {
			return nil, err
		}
		results = append(results, hits...)
	}

	if includeImages && a.Manager.ImageIndex.Size() > 0 {
		vec, err := a.ImageEmbedder.EmbedTextQuery(ctx, query)
		if err != nil {
			return nil, err
		}
		hits, err := a.Manager.ImageIndex.Search(vec, topK)
		if err != nil && ferrors.GetCode(err) != ferrors.ErrCodeDimensionMismatch {
			return nil, err
		}
		results = append(results, hits...)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}
