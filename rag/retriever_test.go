package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestQuerySafe_ReturnsRows(t *testing.T) {
	r := &Static{Rows: []Row{
		{Text: "Rule 1: one point beyond 3 sigma.", Score: 0.92},
		{Text: "Rule 2: nine points on one side.", Score: 0.81},
	}}

	rows := QuerySafe(context.Background(), r, "western electric", 5, MethodHybrid, zap.NewNop())
	assert.Len(t, rows, 2)
}

func TestQuerySafe_HonorsTopK(t *testing.T) {
	r := &Static{Rows: []Row{{Text: "a"}, {Text: "b"}, {Text: "c"}}}
	rows := QuerySafe(context.Background(), r, "q", 2, MethodBM25, zap.NewNop())
	assert.Len(t, rows, 2)
}

func TestQuerySafe_SwallowsErrors(t *testing.T) {
	r := &Static{Err: errors.New("index offline")}
	rows := QuerySafe(context.Background(), r, "q", 3, MethodSemantic, zap.NewNop())
	assert.Nil(t, rows)
}

func TestQuerySafe_NilRetriever(t *testing.T) {
	assert.Nil(t, QuerySafe(context.Background(), nil, "q", 3, MethodHybrid, zap.NewNop()))
}

func TestFormatContext(t *testing.T) {
	assert.Empty(t, FormatContext(nil))

	out := FormatContext([]Row{
		{Text: "  First passage. ", Score: 0.9},
		{Text: "Second passage.", Score: 0.5},
	})
	assert.Equal(t, "Reference material:\n[1] First passage.\n[2] Second passage.\n", out)
}
