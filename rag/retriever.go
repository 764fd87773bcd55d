// Package rag defines the narrow interface to the knowledge-retrieval
// collaborator and the formatting of retrieved rows into prompt context.
//
// Retrieval is strictly best-effort: an error from the collaborator is
// logged and treated as "no context available", never propagated as fatal.
// The search engine itself (vector index, BM25, knowledge-store files) is
// outside this module.
package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Method selects the retrieval strategy.
type Method string

const (
	MethodHybrid   Method = "hybrid"
	MethodSemantic Method = "semantic"
	MethodBM25     Method = "bm25"
)

// Row is one retrieved reference passage with its relevance score.
type Row struct {
	Text  string
	Score float64
}

// Retriever is the capability the external knowledge store must offer.
type Retriever interface {
	Query(ctx context.Context, text string, topK int, method Method) ([]Row, error)
}

// QuerySafe wraps Retriever.Query with the error-swallowing contract:
// failures and empty results both come back as nil rows.
func QuerySafe(ctx context.Context, r Retriever, text string, topK int, method Method, logger *zap.Logger) []Row {
	if r == nil {
		return nil
	}
	rows, err := r.Query(ctx, text, topK, method)
	if err != nil {
		if logger != nil {
			logger.Warn("retrieval failed, continuing without context",
				zap.String("method", string(method)),
				zap.Error(err),
			)
		}
		return nil
	}
	return rows
}

// FormatContext renders retrieved rows as a numbered reference block for
// prompt assembly. Empty input yields an empty string.
func FormatContext(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Reference material:\n")
	for i, row := range rows {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, strings.TrimSpace(row.Text))
	}
	return b.String()
}

// Static is a fixed-row retriever for tests and examples.
type Static struct {
	Rows []Row
	Err  error
}

func (s *Static) Query(ctx context.Context, text string, topK int, method Method) ([]Row, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if topK > 0 && topK < len(s.Rows) {
		return s.Rows[:topK], nil
	}
	return s.Rows, nil
}
