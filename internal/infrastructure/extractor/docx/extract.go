package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

var errMissingDocumentPart = errors.New("docx archive has no " + documentPart)

// Extract returns the non-blank body paragraphs of a .docx file joined by newlines.
// Table cells, text boxes and headers are not part of the body paragraph sequence.
func Extract(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var part *zip.File
	for _, f := range archive.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", errMissingDocumentPart
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(rc)
	if err != nil {
		return "", err
	}

	kept := paragraphs[:0]
	for _, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "\n"), nil
}

func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		paraDepth  int
		skipDepth  int
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			name := t.Name.Local
			stack = append(stack, name)
			depth := len(stack)

			switch {
			case paraDepth == 0:
				if name == "p" && parent == "body" {
					paraDepth = depth
					current.Reset()
				}
			case skipDepth != 0:
			case name == "txbxContent":
				skipDepth = depth
			case parent != "r":
			case name == "t":
				inText = true
			case name == "tab":
				current.WriteByte('\t')
			case name == "br", name == "cr":
				current.WriteByte('\n')
			}

		case xml.EndElement:
			depth := len(stack)
			if depth == 0 {
				continue
			}
			if skipDepth == depth {
				skipDepth = 0
			}
			if paraDepth == depth {
				paragraphs = append(paragraphs, current.String())
				paraDepth = 0
			}
			if t.Name.Local == "t" {
				inText = false
			}
			stack = stack[:depth-1]

		case xml.CharData:
			if paraDepth != 0 && skipDepth == 0 && inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
