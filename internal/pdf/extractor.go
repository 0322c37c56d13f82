// Package pdf extracts plain text from uploaded resume files.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	// ErrNoText means the file parsed but yielded nothing, typically a
	// scanned or secured document.
	ErrNoText     = errors.New("no_extractable_text")
	ErrInvalidPDF = errors.New("invalid_pdf")
)

type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

type extractor struct {
	log *zap.Logger
}

func NewExtractor(log *zap.Logger) Extractor {
	return &extractor{log: log.Named("pdf.extractor")}
}

func (e *extractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", ErrInvalidPDF
	}
	// The parser panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("pdf parser panicked", zap.Any("cause", r))
			text, err = "", ErrInvalidPDF
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", ErrInvalidPDF
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", ErrInvalidPDF
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", ErrInvalidPDF
	}

	text = strings.TrimSpace(buf.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

var Module = fx.Module("pdf.extractor",
	fx.Provide(NewExtractor),
)
