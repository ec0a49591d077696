package pdftext

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extract returns the text layer of every page in order, one newline-joined segment per page.
// Pages without a decodable text layer contribute nothing.
func Extract(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText := strings.TrimSpace(layoutLines(page.Content().Text))
		if pageText == "" {
			continue
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}

// layoutLines rebuilds reading order from positioned glyphs. A baseline change
// starts a new line; a horizontal gap wider than a fraction of the font size
// becomes a space.
func layoutLines(glyphs []pdf.Text) string {
	var (
		b       strings.Builder
		prev    pdf.Text
		started bool
		pending bool
	)
	for _, g := range glyphs {
		if g.S == "\n" || g.S == "\r" {
			pending = started
			continue
		}
		if !started {
			b.WriteString(g.S)
			prev, started = g, true
			continue
		}

		size := math.Max(math.Abs(g.FontSize), 1)
		switch {
		case math.Abs(g.Y-prev.Y) > size/2:
			trimTrailingSpace(&b)
			b.WriteByte('\n')
		case pending || g.X-(prev.X+prev.W) > size*0.2:
			if !endsWithSpace(&b) && g.S != " " {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
		prev, pending = g, false
	}
	return b.String()
}

func endsWithSpace(b *strings.Builder) bool {
	s := b.String()
	return s == "" || strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n")
}

func trimTrailingSpace(b *strings.Builder) {
	s := strings.TrimRight(b.String(), " \t")
	if len(s) == b.Len() {
		return
	}
	b.Reset()
	b.WriteString(s)
}
