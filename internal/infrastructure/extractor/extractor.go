package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/extractor/plaintext"
)

type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract dispatches on the filename suffix. Unsupported formats yield "" without error;
// parser faults are reported as *domain.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	format := domain.FormatFromFilename(filename)
	if err := ctx.Err(); err != nil {
		return "", &domain.ExtractionError{Filename: filename, Format: format, Err: err}
	}

	text, err := decode(format, data)
	if err != nil {
		e.logger.Warn("document_extract_failed",
			"filename", filename,
			"format", format.String(),
			"bytes", len(data),
			"error", err,
		)
		return "", &domain.ExtractionError{Filename: filename, Format: format, Err: err}
	}

	e.logger.Debug("document_extracted",
		"filename", filename,
		"format", format.String(),
		"bytes", len(data),
		"chars", len(text),
	)
	return text, nil
}

func decode(format domain.DocumentFormat, data []byte) (string, error) {
	switch format {
	case domain.FormatText:
		return plaintext.Decode(data), nil
	case domain.FormatPDF:
		return pdftext.Extract(data)
	case domain.FormatDOCX:
		return docx.Extract(data)
	case domain.FormatUnsupported:
		return "", nil
	default:
		return "", fmt.Errorf("no decoder registered for format %d", format)
	}
}
