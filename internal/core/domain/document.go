package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentFormat is the closed set of formats the extractor understands.
type DocumentFormat int

const (
	FormatUnsupported DocumentFormat = iota
	FormatText
	FormatPDF
	FormatDOCX
)

func FormatFromFilename(name string) DocumentFormat {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return FormatPDF
	case strings.HasSuffix(lower, ".docx"):
		return FormatDOCX
	case strings.HasSuffix(lower, ".txt"):
		return FormatText
	default:
		return FormatUnsupported
	}
}

// AllFormats enumerates every format, unsupported included.
func AllFormats() []DocumentFormat {
	return []DocumentFormat{FormatUnsupported, FormatText, FormatPDF, FormatDOCX}
}

func (f DocumentFormat) String() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "unsupported"
	}
}

// SupportedExtensions lists the upload extensions accepted by the UI.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt"}
}

type UploadFile struct {
	Name string
	Data []byte
}

type UploadedDocument struct {
	Name            string         `json:"name"`
	Format          DocumentFormat `json:"format"`
	Text            string         `json:"text"`
	ExtractionError string         `json:"extraction_error,omitempty"`
	UploadedAt      time.Time      `json:"uploaded_at"`
}

func (d UploadedDocument) Failed() bool {
	return d.ExtractionError != ""
}

// BaseName strips the directory and extension from the document name.
func (d UploadedDocument) BaseName() string {
	base := filepath.Base(d.Name)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		return "document"
	}
	return base
}
