package normalize

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF returns the plain text of every page, each followed by a newline.
func extractPDF(ctx context.Context, data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: pdf: %v", ErrUnreadableDocument, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrUnreadableDocument, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: pdf page %d: %v", ErrUnreadableDocument, i, err)
		}
		sb.WriteString(content)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// extractDOCX returns the paragraphs of word/document.xml joined by newlines.
// DOCXExpansionLimit bounds the decompressed document.xml as a multiple of the upload limit.
const DOCXExpansionLimit = 10

func extractDOCX(ctx context.Context, data []byte, limit int64) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrUnreadableDocument, err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		if f.UncompressedSize64 > uint64(limit) {
			return "", fmt.Errorf("%w: docx expands to %d bytes (limit %d)", ErrTooLarge, f.UncompressedSize64, limit)
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%w: docx: %v", ErrUnreadableDocument, err)
		}
		defer rc.Close()

		// The header size may be forged; bound what is actually decoded.
		lr := &io.LimitedReader{R: rc, N: limit + 1}
		text, err := docxParagraphs(ctx, lr)
		if lr.N <= 0 {
			return "", fmt.Errorf("%w: docx expands beyond %d bytes", ErrTooLarge, limit)
		}
		return text, err
	}
	return "", fmt.Errorf("%w: docx: missing word/document.xml", ErrUnreadableDocument)
}

func docxParagraphs(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: docx xml: %v", ErrUnreadableDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return strings.Join(paragraphs, "\n"), nil
}
