package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
)

var ErrNotPDF = errors.New("document is not a PDF")

// Extractor turns document bytes into plain text.
type Extractor interface {
	ExtractText(data []byte) (string, error)
}

// PlainTextExtractor concatenates the text of every page in order.
type PlainTextExtractor struct{}

func (PlainTextExtractor) ExtractText(data []byte) (text string, err error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("%PDF-")) {
		return "", ErrNotPDF
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}
