package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
	"github.com/kirillkom/legal-doc-simplifier/internal/testdoc"
)

func TestExtractDispatchesByLowercasedSuffix(t *testing.T) {
	e := New(nil)
	ctx := context.Background()

	cases := []struct {
		name     string
		data     []byte
		contains string
	}{
		{name: "NOTICE.TXT", data: []byte("Pay $500 by March 1."), contains: "Pay $500 by March 1."},
		{name: "Lease.PDF", data: testdoc.PDF("Tenant shall pay rent"), contains: "Tenant shall pay rent"},
		{name: "nda.Docx", data: testdoc.DOCX("Confidential", "", "Information"), contains: "Confidential\nInformation"},
	}
	for _, tc := range cases {
		text, err := e.Extract(ctx, tc.name, tc.data)
		if err != nil {
			t.Fatalf("Extract(%s) error = %v", tc.name, err)
		}
		if !strings.Contains(text, tc.contains) {
			t.Fatalf("Extract(%s) = %q, want substring %q", tc.name, text, tc.contains)
		}
	}
}

func TestExtractUnsupportedExtensionIsEmpty(t *testing.T) {
	text, err := New(nil).Extract(context.Background(), "ledger.csv", []byte("a,b,c\n1,2,3"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestExtractTextNeverFails(t *testing.T) {
	e := New(nil)
	for _, raw := range [][]byte{nil, {0xff, 0xfe, 0x00}, {0xc3, 0x28}, []byte("ok")} {
		if _, err := e.Extract(context.Background(), "x.txt", raw); err != nil {
			t.Fatalf("Extract(txt %v) error = %v", raw, err)
		}
	}
}

func TestExtractCorruptPDFReturnsExtractionError(t *testing.T) {
	_, err := New(nil).Extract(context.Background(), "broken.pdf", []byte("%PDF-1.7 truncated"))
	if err == nil {
		t.Fatalf("expected error")
	}

	var extractErr *domain.ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractionError, got %T: %v", err, err)
	}
	if extractErr.Filename != "broken.pdf" || extractErr.Format != domain.FormatPDF {
		t.Fatalf("unexpected extraction error fields: %+v", extractErr)
	}
}

func TestEveryFormatHasADecoder(t *testing.T) {
	for _, format := range domain.AllFormats() {
		if _, err := decode(format, nil); err != nil && strings.Contains(err.Error(), "no decoder registered") {
			t.Fatalf("format %s has no decoder", format)
		}
	}
}

func TestExtractHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Extract(ctx, "a.txt", []byte("text"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
