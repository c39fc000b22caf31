// Package normalize turns an uploaded contract into the plain text the clause
// pipeline works on: extract text by file type, fold Unicode compatibility
// forms, and translate non-English documents.
package normalize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrEmptyDocument      = errors.New("document contains no text")
	ErrTooLarge           = errors.New("document exceeds size limit")
	ErrUnreadableDocument = errors.New("document could not be read")
)

// DefaultMaxBytes is the upload size limit used when none is configured.
const DefaultMaxBytes = 10 << 20

// DefaultLanguage is the language contracts are analyzed in.
const DefaultLanguage = "English"

// Format is a supported document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

// Normalizer extracts and prepares contract text. It is safe for concurrent use.
type Normalizer struct {
	translator Translator
	maxBytes   int64
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithTranslator sets the translator used for non-English documents.
func WithTranslator(t Translator) Option {
	return func(n *Normalizer) { n.translator = t }
}

// WithMaxBytes sets the largest accepted document.
func WithMaxBytes(max int64) Option {
	return func(n *Normalizer) {
		if max > 0 {
			n.maxBytes = max
		}
	}
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{translator: PassThrough{}, maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// MaxBytes returns the configured size limit.
func (n *Normalizer) MaxBytes() int64 { return n.maxBytes }

// Normalize extracts text from data and prepares it for segmentation.
func (n *Normalizer) Normalize(ctx context.Context, filename string, data []byte, language string) (string, error) {
	if int64(len(data)) > n.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), n.maxBytes)
	}

	format, err := DetectFormat(filename, data)
	if err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = extractPDF(ctx, data)
	case FormatDOCX:
		text, err = extractDOCX(ctx, data, n.maxBytes*DOCXExpansionLimit)
	default:
		text = decodeText(data)
	}
	if err != nil {
		return "", err
	}

	return n.NormalizeText(ctx, text, language)
}

// NormalizeText prepares already-extracted text. NUL bytes are removed.
// Text that is empty after normalization returns ErrEmptyDocument.
func (n *Normalizer) NormalizeText(ctx context.Context, text, language string) (string, error) {
	text = norm.NFKC.String(strings.ReplaceAll(text, "\x00", ""))
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return n.translate(ctx, text, language), nil
}

// DetectFormat sniffs the content type of data, falling back to the file
// extension when the content is not recognized.
func DetectFormat(filename string, data []byte) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	kind, _ := filetype.Match(data)
	switch kind.Extension {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	case "zip":
		if ext == "docx" {
			return FormatDOCX, nil
		}
	}
	if kind != filetype.Unknown {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}

	switch ext {
	case "txt", "text", "":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
}

// decodeText reads UTF-8, dropping a byte order mark. Bytes that are not valid
// UTF-8 are read as Windows-1252, the usual encoding of legacy plain-text exports.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		slog.Warn("text decode fell back to lossy UTF-8", "error", err)
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(decoded)
}
