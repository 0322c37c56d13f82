package pdf

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestExtractTextRejectsNonPDF(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	if _, err := e.ExtractText(context.Background(), []byte("plain text resume")); !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF, got %v", err)
	}
}

func TestExtractTextRejectsTruncatedPDF(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	if _, err := e.ExtractText(context.Background(), []byte("%PDF-1.7\ngarbage")); !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF, got %v", err)
	}
}

func TestExtractTextRejectsEmptyInput(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	if _, err := e.ExtractText(context.Background(), nil); !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF, got %v", err)
	}
}
